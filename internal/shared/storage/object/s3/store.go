// Package s3 implements the object store on S3-compatible storage.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"resume-search/internal/shared/storage/object"
	"resume-search/internal/shared/util"
)

// Store implements ObjectStore backed by an S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewClient builds an S3 client from the default AWS config chain. A
// non-empty endpoint (e.g. Cloudflare R2) switches to path-style addressing
// and static credentials from S3_ACCESS_KEY_ID / S3_SECRET_ACCESS_KEY.
func NewClient(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		accessKey := strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID"))
		secretKey := strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY"))
		if accessKey != "" && secretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			))
		}
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// New creates a Store writing under the given bucket and key prefix.
func New(client *s3.Client, bucket, prefix string) object.ObjectStore {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Save uploads the payload under the session's namespace.
func (s *Store) Save(ctx context.Context, sessionID string, fileName string, r io.Reader) (string, int64, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("sanitize file name: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("read body: %w", err)
	}

	key := path.Join(s.prefix, util.HashSessionKey(sessionID), sanitizedName)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", 0, fmt.Errorf("put object %s: %w", key, err)
	}
	return key, int64(len(data)), nil
}

// Open fetches a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", storageKey, err)
	}
	return out.Body, nil
}

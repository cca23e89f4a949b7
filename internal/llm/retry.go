package llm

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
	"time"
)

const (
	retryBaseDelay  = 300 * time.Millisecond
	retryMaxRetries = 2
)

type retrying struct {
	base       Client
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry wraps base with a bounded retry policy: transient failures are
// retried up to retryMaxRetries times with exponential backoff. Anything the
// model actually returned is never retried.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return retrying{base: base, maxRetries: retryMaxRetries, baseDelay: retryBaseDelay}
}

func (r retrying) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := r.base.Complete(ctx, prompt)
	if err == nil {
		return out, nil
	}

	delay := r.baseDelay
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if !shouldRetry(err) {
			return "", err
		}
		log.Printf("llm retry attempt=%d error=%s", attempt, sanitizeError(err))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2

		out, err = r.base.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
	}
	return "", err
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrNotConfigured) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}

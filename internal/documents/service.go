package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-search/internal/extract"
	"resume-search/internal/segment"
	"resume-search/internal/shared/storage/object"
	"resume-search/internal/shared/util"
)

// Service ingests resume uploads: persists the payload, decodes it to text,
// normalizes it, and segments the experience section. All of that happens
// once; the stored Document is immutable apart from its extraction state.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Vocab segment.Vocabulary
}

// Upload validates the format, stores the payload, and creates the cache
// entry. Unsupported formats are rejected before any pipeline work and leave
// the cache untouched.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Document, error) {
	if sessionID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}

	format, err := extract.DetectFormat(fileName)
	if err != nil {
		return Document{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, err := s.Store.Save(ctx, sessionID, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	rawText, err := extract.Text(ctx, data, format)
	if err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", format, err)
	}

	lines := segment.Normalize(rawText)
	doc := Document{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		FileName:    fileName,
		Format:      format,
		ContentHash: util.ContentHash(data),
		SizeBytes:   size,
		StorageKey:  storageKey,
		Lines:       lines,
		CreatedAt:   time.Now().UTC(),
	}

	if section, ok := segment.FindSection(lines, s.vocab()); ok {
		doc.SectionFound = true
		doc.SectionText = section.Text
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns one of the session's documents.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (Document, error) {
	if sessionID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, documentID)
}

// List returns the session's documents, newest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Document, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID)
}

func (s *Service) vocab() segment.Vocabulary {
	if len(s.Vocab.Headings) == 0 {
		return segment.DefaultVocabulary()
	}
	return s.Vocab
}

package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // sessionID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create stores a document for a session.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.SessionID] = append(r.data[doc.SessionID], doc)
	return nil
}

// GetByID returns a document by ID for a session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[sessionID]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListBySession returns a session's documents, newest first.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	sessionDocs := r.data[sessionID]
	r.mu.RUnlock()

	docs := make([]Document, len(sessionDocs))
	copy(docs, sessionDocs)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// SetExtraction replaces a document's extraction state, last write wins.
func (r *MemoryRepo) SetExtraction(ctx context.Context, sessionID, documentID string, state ExtractionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[sessionID]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Extraction = &state
			r.data[sessionID] = docs
			return nil
		}
	}
	return ErrNotFound
}

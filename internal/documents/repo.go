package documents

import "context"

// Repo defines persistence for the per-session document cache.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, sessionID, documentID string) (Document, error)
	ListBySession(ctx context.Context, sessionID string) ([]Document, error)
	// SetExtraction replaces the document's extraction state. Last write wins.
	SetExtraction(ctx context.Context, sessionID, documentID string, state ExtractionState) error
}

package extractions

import "errors"

var (
	// ErrInFlight rejects a duplicate trigger while an extraction for the
	// same document is still running.
	ErrInFlight = errors.New("extraction already in flight")

	// ErrNoExtraction means no extraction has completed for the document yet.
	ErrNoExtraction = errors.New("no extraction for document")
)

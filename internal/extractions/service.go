// Package extractions runs model-assisted extraction on cached documents.
package extractions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resume-search/internal/documents"
	"resume-search/internal/extraction"
	"resume-search/internal/llm"
	"resume-search/internal/shared/telemetry"
)

// Service triggers extraction for a document and caches the outcome.
// Extraction is serialized per document identity: a duplicate trigger while
// one is running is rejected, never queued. A trigger after completion
// overwrites the stored result.
type Service struct {
	Docs          documents.Repo
	LLM           llm.Client
	Timeout       time.Duration
	PromptVersion string

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService constructs an extraction service.
func NewService(docs documents.Repo, client llm.Client, timeout time.Duration, promptVersion string) *Service {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if promptVersion == "" {
		promptVersion = "v1"
	}
	return &Service{
		Docs:          docs,
		LLM:           client,
		Timeout:       timeout,
		PromptVersion: promptVersion,
		inflight:      make(map[string]struct{}),
	}
}

// Trigger runs extraction for one document and stores the result. The call
// blocks until the inference collaborator returns or the bounded timeout
// expires; other documents' cached state stays readable throughout.
func (s *Service) Trigger(ctx context.Context, sessionID, documentID string) (documents.ExtractionState, error) {
	doc, err := s.Docs.GetByID(ctx, sessionID, documentID)
	if err != nil {
		return documents.ExtractionState{}, err
	}

	key := sessionID + "|" + documentID
	if !s.acquire(key) {
		return documents.ExtractionState{}, ErrInFlight
	}
	defer s.release(key)

	prompt := extraction.BuildPrompt(s.PromptVersion, doc.Text())

	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.LLM.Complete(callCtx, prompt)
	if err != nil {
		telemetry.Error("extraction.inference_failed", map[string]any{
			"document_id": documentID,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err.Error(),
		})
		return documents.ExtractionState{}, fmt.Errorf("inference: %w", err)
	}

	result := extraction.Parse(raw)
	state := documents.ExtractionState{
		Status:    documents.ExtractionUnparsed,
		Raw:       result.Raw,
		UpdatedAt: time.Now().UTC(),
	}
	if result.Parsed() {
		state.Status = documents.ExtractionParsed
		state.Record = result.Record
	}

	if err := s.Docs.SetExtraction(ctx, sessionID, documentID, state); err != nil {
		return documents.ExtractionState{}, err
	}

	telemetry.Info("extraction.complete", map[string]any{
		"document_id": documentID,
		"status":      state.Status,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return state, nil
}

// Get returns the cached extraction state for a document.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (documents.ExtractionState, error) {
	doc, err := s.Docs.GetByID(ctx, sessionID, documentID)
	if err != nil {
		return documents.ExtractionState{}, err
	}
	if doc.Extraction == nil {
		return documents.ExtractionState{}, ErrNoExtraction
	}
	return *doc.Extraction, nil
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[key]; running {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

package extractions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resume-search/internal/documents"
	"resume-search/internal/llm"
)

type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	outputs []string
	err     error
	block   chan struct{} // when set, Complete waits for it per call
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if idx < len(f.outputs) {
		return f.outputs[idx], nil
	}
	return f.outputs[len(f.outputs)-1], nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seedDoc(t *testing.T, repo documents.Repo) documents.Document {
	t.Helper()
	doc := documents.Document{
		ID:           "doc-1",
		SessionID:    "anon:s1",
		FileName:     "resume.pdf",
		Lines:        []string{"Jane Doe", "Experience", "Initech - Engineer"},
		SectionFound: true,
		SectionText:  "Experience\nInitech - Engineer",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	return doc
}

func TestTriggerStoresParsedRecord(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)

	fake := &fakeLLM{outputs: []string{`{"full_name":"Jane Doe","total_experience":"5 years","skills":["Go"],"job_history":[]}`}}
	svc := NewService(repo, fake, time.Second, "v1")

	state, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if state.Status != documents.ExtractionParsed {
		t.Fatalf("expected parsed status, got %s", state.Status)
	}
	if state.Record == nil || *state.Record.FullName != "Jane Doe" {
		t.Fatalf("unexpected record: %+v", state.Record)
	}

	stored, err := svc.Get(context.Background(), doc.SessionID, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != documents.ExtractionParsed {
		t.Fatalf("expected cached parsed state, got %s", stored.Status)
	}
}

func TestTriggerStoresUnparsedOutputVerbatim(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)

	raw := "Here is what I found: Jane works at Initech."
	fake := &fakeLLM{outputs: []string{raw}}
	svc := NewService(repo, fake, time.Second, "v1")

	state, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if state.Status != documents.ExtractionUnparsed {
		t.Fatalf("expected unparsed status, got %s", state.Status)
	}
	if state.Raw != raw {
		t.Fatalf("raw output must be preserved verbatim, got %q", state.Raw)
	}
	if state.Record != nil {
		t.Fatalf("unparsed state must not carry a record")
	}
}

func TestRetriggerOverwritesLastWriteWins(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)

	fake := &fakeLLM{outputs: []string{
		`{"full_name":"First","skills":[],"job_history":[]}`,
		`{"full_name":"Second","skills":[],"job_history":[]}`,
	}}
	svc := NewService(repo, fake, time.Second, "v1")

	if _, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if _, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID); err != nil {
		t.Fatalf("second trigger: %v", err)
	}

	state, err := svc.Get(context.Background(), doc.SessionID, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Record == nil || *state.Record.FullName != "Second" {
		t.Fatalf("expected second result to overwrite, got %+v", state.Record)
	}
	if fake.callCount() != 2 {
		t.Fatalf("expected 2 inference calls, got %d", fake.callCount())
	}
}

func TestDuplicateInFlightTriggerRunsInferenceOnce(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)

	fake := &fakeLLM{
		outputs: []string{`{"skills":[],"job_history":[]}`},
		block:   make(chan struct{}),
	}
	svc := NewService(repo, fake, 5*time.Second, "v1")

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID)
		firstDone <- err
	}()

	// Wait until the first trigger reaches the collaborator.
	deadline := time.Now().Add(2 * time.Second)
	for fake.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first trigger never reached the LLM")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight for duplicate trigger, got %v", err)
	}

	close(fake.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if fake.callCount() != 1 {
		t.Fatalf("expected exactly one inference call, got %d", fake.callCount())
	}
}

func TestTriggerDifferentDocumentsNotSerialized(t *testing.T) {
	repo := documents.NewMemoryRepo()
	docA := seedDoc(t, repo)
	docB := documents.Document{
		ID:        "doc-2",
		SessionID: docA.SessionID,
		FileName:  "other.pdf",
		Lines:     []string{"Other"},
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), docB); err != nil {
		t.Fatalf("seed docB: %v", err)
	}

	fake := &fakeLLM{
		outputs: []string{`{"skills":[],"job_history":[]}`},
		block:   make(chan struct{}),
	}
	svc := NewService(repo, fake, 5*time.Second, "v1")

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Trigger(context.Background(), docA.SessionID, docA.ID)
		firstDone <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for fake.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first trigger never reached the LLM")
		}
		time.Sleep(5 * time.Millisecond)
	}

	secondDone := make(chan error, 1)
	go func() {
		_, err := svc.Trigger(context.Background(), docB.SessionID, docB.ID)
		secondDone <- err
	}()

	close(fake.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("trigger docA: %v", err)
	}
	if err := <-secondDone; err != nil {
		t.Fatalf("trigger docB: %v", err)
	}
	if fake.callCount() != 2 {
		t.Fatalf("expected two inference calls across documents, got %d", fake.callCount())
	}
}

func TestTriggerInferenceFailureNotCached(t *testing.T) {
	repo := documents.NewMemoryRepo()
	doc := seedDoc(t, repo)

	fake := &fakeLLM{err: llm.ErrTimeout}
	svc := NewService(repo, fake, time.Second, "v1")

	if _, err := svc.Trigger(context.Background(), doc.SessionID, doc.ID); !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected timeout to propagate, got %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.SessionID, doc.ID); !errors.Is(err, ErrNoExtraction) {
		t.Fatalf("expected no cached extraction after failure, got %v", err)
	}
}

func TestTriggerUnknownDocument(t *testing.T) {
	svc := NewService(documents.NewMemoryRepo(), &fakeLLM{outputs: []string{"{}"}}, time.Second, "v1")
	if _, err := svc.Trigger(context.Background(), "anon:s1", "missing"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

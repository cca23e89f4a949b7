package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-search/internal/extract"
)

func TestPGRepoCreatePersistsSegmentation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:           "doc-1",
		SessionID:    "anon:s1",
		FileName:     "resume.pdf",
		Format:       extract.FormatPDF,
		ContentHash:  "deadbeef",
		SizeBytes:    2048,
		StorageKey:   "resumes/a1/b2.pdf",
		Lines:        []string{"Jane Doe", "Experience", "Initech - Engineer"},
		SectionFound: true,
		SectionText:  "Experience\nInitech - Engineer",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.SessionID,
			doc.FileName,
			string(doc.Format),
			doc.ContentHash,
			doc.SizeBytes,
			doc.StorageKey,
			"Jane Doe\nExperience\nInitech - Engineer",
			doc.SectionFound,
			doc.SectionText,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDRestoresExtractionState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "file_name", "format", "content_hash", "size_bytes",
		"storage_key", "normalized_text", "section_found", "section_text",
		"extraction_status", "extraction_raw", "extraction_record", "extracted_at", "created_at",
	}).AddRow(
		"doc-1", "anon:s1", "resume.pdf", "pdf", "deadbeef", int64(2048),
		"resumes/a1/b2.pdf", "Jane Doe\nExperience\nInitech - Engineer", true, "Experience\nInitech - Engineer",
		ExtractionParsed, `{"full_name":"Jane Doe"}`, []byte(`{"full_name":"Jane Doe","skills":["Go"],"job_history":[]}`), now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("anon:s1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "anon:s1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(doc.Lines) != 3 || doc.Lines[1] != "Experience" {
		t.Fatalf("unexpected lines: %v", doc.Lines)
	}
	if doc.Extraction == nil || doc.Extraction.Status != ExtractionParsed {
		t.Fatalf("unexpected extraction state: %+v", doc.Extraction)
	}
	if doc.Extraction.Record == nil || *doc.Extraction.Record.FullName != "Jane Doe" {
		t.Fatalf("unexpected record: %+v", doc.Extraction.Record)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("anon:s1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "anon:s1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSetExtractionNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE documents").
		WithArgs("anon:s1", "missing", ExtractionUnparsed, "raw text", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	state := ExtractionState{Status: ExtractionUnparsed, Raw: "raw text", UpdatedAt: time.Now().UTC()}
	if err := repo.SetExtraction(context.Background(), "anon:s1", "missing", state); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

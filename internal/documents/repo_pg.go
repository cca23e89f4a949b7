package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-search/internal/extract"
	"resume-search/internal/extraction"
	"resume-search/internal/segment"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document with its normalized text and section.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    session_id,
    file_name,
    format,
    content_hash,
    size_bytes,
    storage_key,
    normalized_text,
    section_found,
    section_text,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.SessionID,
		doc.FileName,
		string(doc.Format),
		doc.ContentHash,
		doc.SizeBytes,
		storageKey,
		strings.Join(doc.Lines, "\n"),
		doc.SectionFound,
		doc.SectionText,
		doc.CreatedAt,
	)
	return err
}

const selectColumns = `id, session_id, file_name, format, content_hash, size_bytes, storage_key, normalized_text, section_found, section_text, extraction_status, extraction_raw, extraction_record, extracted_at, created_at`

// GetByID returns a document by ID for a session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, documentID string) (Document, error) {
	query := `
SELECT ` + selectColumns + `
FROM documents
WHERE session_id = $1 AND id = $2`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, sessionID, documentID))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// ListBySession returns a session's documents, newest first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string) ([]Document, error) {
	query := `
SELECT ` + selectColumns + `
FROM documents
WHERE session_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SetExtraction replaces a document's extraction state, last write wins.
func (r *PGRepo) SetExtraction(ctx context.Context, sessionID, documentID string, state ExtractionState) error {
	const query = `
UPDATE documents
SET extraction_status = $3, extraction_raw = $4, extraction_record = $5, extracted_at = $6
WHERE session_id = $1 AND id = $2`

	var record any
	if state.Record != nil {
		data, err := json.Marshal(state.Record)
		if err != nil {
			return fmt.Errorf("marshal extraction record: %w", err)
		}
		record = data
	}

	res, err := r.DB.ExecContext(ctx, query, sessionID, documentID, state.Status, state.Raw, record, state.UpdatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var format string
	var storageKey sql.NullString
	var normalizedText string
	var extractionStatus sql.NullString
	var extractionRaw sql.NullString
	var extractionRecord []byte
	var extractedAt sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.SessionID,
		&doc.FileName,
		&format,
		&doc.ContentHash,
		&doc.SizeBytes,
		&storageKey,
		&normalizedText,
		&doc.SectionFound,
		&doc.SectionText,
		&extractionStatus,
		&extractionRaw,
		&extractionRecord,
		&extractedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}

	doc.Format = extract.Format(format)
	doc.StorageKey = storageKey.String
	doc.Lines = segment.Normalize(normalizedText)

	if extractionStatus.Valid {
		state := ExtractionState{
			Status: extractionStatus.String,
			Raw:    extractionRaw.String,
		}
		if extractedAt.Valid {
			state.UpdatedAt = extractedAt.Time
		}
		if len(extractionRecord) > 0 {
			var rec extraction.Record
			if err := json.Unmarshal(extractionRecord, &rec); err != nil {
				return Document{}, fmt.Errorf("unmarshal extraction record: %w", err)
			}
			state.Record = &rec
		}
		doc.Extraction = &state
	}
	return doc, nil
}

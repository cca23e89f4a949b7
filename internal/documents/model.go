package documents

import (
	"strings"
	"time"

	"resume-search/internal/extract"
	"resume-search/internal/extraction"
)

// Extraction status values.
const (
	ExtractionParsed   = "parsed"
	ExtractionUnparsed = "unparsed"
)

// Document is the per-session cache entry for one uploaded resume: the
// immutable ingested payload metadata, its normalized text, the segmented
// experience section, and (once triggered) the extraction result. Text
// normalization and segmentation happen exactly once, at ingest.
type Document struct {
	ID          string
	SessionID   string
	FileName    string
	Format      extract.Format
	ContentHash string
	SizeBytes   int64
	StorageKey  string

	Lines        []string
	SectionFound bool
	SectionText  string

	Extraction *ExtractionState
	CreatedAt  time.Time
}

// ExtractionState is the cached outcome of the latest extraction trigger.
// Raw always holds the model output verbatim; Record is set only when the
// output validated against the extraction schema.
type ExtractionState struct {
	Status    string
	Raw       string
	Record    *extraction.Record
	UpdatedAt time.Time
}

// Text returns the document's normalized text as a single blob.
func (d Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

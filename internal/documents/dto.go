package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	Format       string    `json:"format"`
	SizeBytes    int64     `json:"sizeBytes"`
	SectionFound bool      `json:"sectionFound"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.ID,
		FileName:     doc.FileName,
		Format:       string(doc.Format),
		SizeBytes:    doc.SizeBytes,
		SectionFound: doc.SectionFound,
		UploadedAt:   doc.CreatedAt,
	}
}

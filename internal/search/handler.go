package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-search/internal/documents"
	"resume-search/internal/shared/server/middleware"
	"resume-search/internal/shared/server/respond"
)

// Handler evaluates keyword queries against every cached experience section
// in the caller's session.
type Handler struct {
	Docs documents.Repo
}

// NewHandler constructs a Handler.
func NewHandler(docs documents.Repo) *Handler {
	return &Handler{Docs: docs}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
}

// DocumentMatches is the per-document result of a keyword search. Documents
// without an experience section report SectionFound false and match nothing.
type DocumentMatches struct {
	DocumentID   string   `json:"documentId"`
	FileName     string   `json:"fileName"`
	SectionFound bool     `json:"sectionFound"`
	Matched      []string `json:"matched"`
	Unmatched    []string `json:"unmatched"`
}

// SearchResponse is the cross-document search result.
type SearchResponse struct {
	Keywords  []string          `json:"keywords"`
	Documents []DocumentMatches `json:"documents"`
}

func (h *Handler) search(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	keywords := ParseQuery(c.Query("keywords"))
	if len(keywords) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "keywords is required", nil)
		return
	}

	docs, err := h.Docs.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := SearchResponse{Keywords: keywords, Documents: make([]DocumentMatches, 0, len(docs))}
	for _, doc := range docs {
		entry := DocumentMatches{
			DocumentID:   doc.ID,
			FileName:     doc.FileName,
			SectionFound: doc.SectionFound,
			Matched:      []string{},
			Unmatched:    keywords,
		}
		if doc.SectionFound {
			entry.Matched = Match(doc.SectionText, keywords)
			entry.Unmatched = difference(keywords, entry.Matched)
		}
		resp.Documents = append(resp.Documents, entry)
	}

	respond.OK(c, resp)
}

func difference(keywords, matched []string) []string {
	matchedSet := make(map[string]struct{}, len(matched))
	for _, kw := range matched {
		matchedSet[kw] = struct{}{}
	}
	out := []string{}
	for _, kw := range keywords {
		if _, ok := matchedSet[kw]; !ok {
			out = append(out, kw)
		}
	}
	return out
}

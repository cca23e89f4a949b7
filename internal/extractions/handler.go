package extractions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-search/internal/documents"
	"resume-search/internal/extraction"
	"resume-search/internal/llm"
	"resume-search/internal/shared/server/middleware"
	"resume-search/internal/shared/server/respond"
)

// Handler wires extraction routes to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/extraction", h.trigger)
	rg.GET("/documents/:id/extraction", h.get)
}

// ExtractionResponse is the outward-facing extraction result. Raw is the
// model output verbatim; Record is present only when it validated.
type ExtractionResponse struct {
	Status    string             `json:"status"`
	Record    *extraction.Record `json:"record,omitempty"`
	Raw       string             `json:"raw"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toResponse(state documents.ExtractionState) ExtractionResponse {
	return ExtractionResponse{
		Status:    state.Status,
		Record:    state.Record,
		Raw:       state.Raw,
		UpdatedAt: state.UpdatedAt,
	}
}

func (h *Handler) trigger(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	documentID := c.Param("id")
	c.Set("documentId", documentID)

	state, err := h.Svc.Trigger(c.Request.Context(), sessionID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInFlight):
			respond.Error(c, http.StatusConflict, "extraction_in_flight", "extraction already running for this document", nil)
		case errors.Is(err, llm.ErrTimeout):
			respond.Error(c, http.StatusGatewayTimeout, "inference_timeout", "inference timed out", nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "no inference provider configured", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "inference_failed", "inference request failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(state))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	documentID := c.Param("id")

	state, err := h.Svc.Get(c.Request.Context(), sessionID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrNoExtraction):
			respond.Error(c, http.StatusNotFound, "no_extraction", "extraction has not been run for this document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extraction", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(state))
}

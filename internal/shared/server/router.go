// Package server builds the gin engine with middleware and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-search/internal/auth"
	"resume-search/internal/documents"
	"resume-search/internal/extractions"
	"resume-search/internal/search"
	"resume-search/internal/shared/config"
	"resume-search/internal/shared/server/middleware"
	"resume-search/internal/shared/server/respond"
)

// Routes carries the handlers registered under /api/v1.
type Routes struct {
	Documents   *documents.Handler
	Extractions *extractions.Handler
	Search      *search.Handler
	GoogleAuth  *googleauth.GoogleService
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, routes Routes) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Session(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if routes.GoogleAuth != nil {
		routes.GoogleAuth.RegisterRoutes(api)
	}
	if routes.Documents != nil {
		routes.Documents.RegisterRoutes(api)
	}
	if routes.Extractions != nil {
		routes.Extractions.RegisterRoutes(api)
	}
	if routes.Search != nil {
		routes.Search.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

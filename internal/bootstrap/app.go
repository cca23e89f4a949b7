// Package bootstrap assembles the application's dependencies and router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-search/internal/auth"
	"resume-search/internal/documents"
	"resume-search/internal/extractions"
	"resume-search/internal/llm"
	"resume-search/internal/llm/ollama"
	"resume-search/internal/llm/openai"
	"resume-search/internal/search"
	"resume-search/internal/shared/config"
	"resume-search/internal/shared/server"
	"resume-search/internal/shared/storage/db"
	"resume-search/internal/shared/storage/object"
	localstore "resume-search/internal/shared/storage/object/local"
	s3store "resume-search/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	DocsRepo           documents.Repo
	DocumentsService   *documents.Service
	ExtractionsService *extractions.Service

	DocumentsHandler   *documents.Handler
	ExtractionsHandler *extractions.Handler
	SearchHandler      *search.Handler
	GoogleAuth         *googleauth.GoogleService
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := buildLLM(cfg)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    client,
	}

	if sqlDB != nil {
		app.DocsRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		app.DocsRepo = documents.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{Store: store, Repo: app.DocsRepo}
	app.ExtractionsService = extractions.NewService(app.DocsRepo, client, cfg.LLMTimeout, cfg.PromptVersion)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.ExtractionsHandler = extractions.NewHandler(app.ExtractionsService)
	app.SearchHandler = search.NewHandler(app.DocsRepo)
	app.GoogleAuth = googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)

	app.Router = server.NewRouter(cfg, server.Routes{
		Documents:   app.DocumentsHandler,
		Extractions: app.ExtractionsHandler,
		Search:      app.SearchHandler,
		GoogleAuth:  app.GoogleAuth,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		sqlDB.Close()
		return nil
	}
	return sqlDB
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 object store")
		}
		client, err := s3store.NewClient(ctx, cfg.AWSRegion, strings.TrimSpace(os.Getenv("S3_ENDPOINT")))
		if err != nil {
			return nil, err
		}
		return s3store.New(client, cfg.S3Bucket, cfg.S3Prefix), nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildLLM(cfg config.Config) llm.Client {
	var base llm.Client
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			log.Printf("openai client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		base = client
	default:
		client, err := ollama.NewClient(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			log.Printf("ollama client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		base = client
	}
	return llm.WithRetry(base)
}

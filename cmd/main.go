package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sahayhealth/sahay-backend/internal/app"
	"github.com/sahayhealth/sahay-backend/internal/catalog"
	"github.com/sahayhealth/sahay-backend/internal/clients/gemini"
	"github.com/sahayhealth/sahay-backend/internal/clients/pinecone"
	"github.com/sahayhealth/sahay-backend/internal/data/db"
	chatrepo "github.com/sahayhealth/sahay-backend/internal/data/repos/chat"
	"github.com/sahayhealth/sahay-backend/internal/history"
	httpserver "github.com/sahayhealth/sahay-backend/internal/http"
	"github.com/sahayhealth/sahay-backend/internal/http/handlers"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
	"github.com/sahayhealth/sahay-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg := app.LoadConfig(log)
	ctx := context.Background()

	// Catalog
	cat, err := catalog.Load()
	if err != nil {
		log.Fatal("Could not load resource catalog", "error", err)
	}
	selector := catalog.NewSelector(cat)
	log.Info("Resource catalog loaded", "entries", cat.Len())

	// Clients
	geminiClient, err := gemini.New(ctx, log)
	if err != nil {
		log.Fatal("Could not init GeminiClient", "error", err)
	}
	pineconeClient, err := pinecone.New(log, pinecone.ConfigFromEnv())
	if err != nil {
		log.Fatal("Could not init PineconeClient", "error", err)
	}
	retriever, err := pinecone.NewRetriever(log, pineconeClient)
	if err != nil {
		log.Fatal("Could not init PineconeRetriever", "error", err)
	}

	// History store
	store := history.NewStore(log, history.Config{
		TTL:              cfg.HistoryTTL,
		MaxConversations: cfg.HistoryMaxConvs,
	})
	defer store.Stop()

	// Transcript archive (optional)
	var archive chatrepo.ConversationRecordRepo
	if cfg.ArchivePath != "" {
		sqliteService, err := db.NewSQLiteService(log, cfg.ArchivePath)
		if err != nil {
			log.Warn("Transcript archive init failed, continuing without it", "error", err)
		} else if err := sqliteService.AutoMigrateAll(); err != nil {
			log.Warn("Transcript archive migration failed, continuing without it", "error", err)
		} else {
			archive = chatrepo.NewConversationRecordRepo(sqliteService.DB(), log)
		}
	}

	// Services
	normalizer := services.NewNormalizer(log, store, geminiClient)
	validator := services.NewPolicyValidator(log)
	composer := services.NewComposer(
		log,
		services.ComposerConfig{TopK: cfg.TopK, RewriteEnabled: cfg.RewriteEnabled},
		store,
		geminiClient,
		retriever,
		geminiClient,
		normalizer,
		cat,
		selector,
		validator,
		archive,
	)

	// Handlers + router
	chatHandler := handlers.NewChatHandler(log, composer)
	healthHandler := handlers.NewHealthHandler()

	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:           log,
		ChatHandler:   chatHandler,
		HealthHandler: healthHandler,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}

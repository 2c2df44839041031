package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vilaca/issue-tracker/internal/config"
	"github.com/vilaca/issue-tracker/internal/httpapi"
	"github.com/vilaca/issue-tracker/internal/service"
	"github.com/vilaca/issue-tracker/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := httpapi.NewStdLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issueStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Backend, err)
	}

	timeout := time.Duration(cfg.Store.TimeoutSeconds) * time.Second
	issueService := service.NewIssueService(issueStore, logger, timeout)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           buildServer(issueService, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("Starting issue tracker on http://localhost%s (store: %s)", server.Addr, cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("ERROR: server shutdown: %v", err)
	}
	if err := issueStore.Close(shutdownCtx); err != nil {
		logger.Printf("ERROR: closing store: %v", err)
	}
}

// buildStore opens the store backend named in the configuration.
func buildStore(ctx context.Context, cfg *config.Config, logger store.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return store.NewFileStore(cfg.Store.FilePath, logger, nil)
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Store.TimeoutSeconds)*time.Second)
		defer cancel()
		return store.NewMongoStore(connectCtx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		}, nil)
	default:
		return store.NewMemoryStore(nil), nil
	}
}

// buildServer wires up the HTTP handler.
// This is the composition root where all dependencies are created and injected.
func buildServer(issueService httpapi.IssueService, logger httpapi.Logger) http.Handler {
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Service: issueService,
		Logger:  logger,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return httpapi.LogRequests(mux, logger)
}

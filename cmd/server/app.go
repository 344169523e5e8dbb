package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/webdir/client-provider-api/internal/config"
	"github.com/webdir/client-provider-api/internal/platform/postgres"
	"github.com/webdir/client-provider-api/internal/service"
	"github.com/webdir/client-provider-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown. Wiring is explicit:
// every store and service is constructed here and injected downward, with
// no ambient globals or runtime registry scanning.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	clientStore   store.ClientStore
	providerStore store.ProviderStore

	// Services
	directoryService service.DirectoryService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies (configuration, logger,
// database connection) that must be established before wiring.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.clientStore = postgres.NewPostgresClientStore(db, logger)
	app.providerStore = postgres.NewPostgresProviderStore(db, logger)

	var err error
	app.directoryService, err = service.NewDirectoryService(
		db,
		app.clientStore,
		app.providerStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

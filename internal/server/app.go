// Package server assembles the reference backend: PostgreSQL, S3 document
// storage, the admin and case services, and the REST API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/dmitrijs2005/immiconsole/internal/server/config"
	"github.com/dmitrijs2005/immiconsole/internal/server/httpapi"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/immiconsole/internal/server/services"
	"github.com/dmitrijs2005/immiconsole/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp connects to the database, applies migrations, makes sure the
// bootstrap admin exists and builds the HTTP handler.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, "info")

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	s3c, err := storage.NewS3Client(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store := storage.NewDocumentStore(s3c, c.S3Bucket)

	as := services.NewAdminService(db, rm, c, logger)
	if err := as.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		_ = db.Close()
		return nil, err
	}
	cs := services.NewCaseService(db, rm, store, logger)

	h := httpapi.NewHandler(as, cs, logger, c.MaxUploadBytes)

	return &App{config: c, logger: logger, db: db, handler: httpapi.NewRouter(h)}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

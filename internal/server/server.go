// Package server boots the shared infrastructure and runs the HTTP server
// until SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/routes"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/internal/kernel"
	"github.com/beautydb/backoffice/pkg/cache"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/logger"
	"github.com/beautydb/backoffice/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// App is the booted infrastructure shared by the server and CLI commands.
type App struct {
	Gateway database.Gateway
	Images  *imagestore.Store
	Events  *event.Bus
}

// Boot loads config and connects the database, cache and storage disk. A
// cache that cannot be reached is logged and left disabled.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	if err := storage.Connect(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}
	disk, err := storage.Default()
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	bus := event.New()
	bus.Listen(func(ctx context.Context, e event.Event) {
		logger.WithCtx(ctx).Info("order placed", "order_id", e.ID)
	}, event.OrderPlaced)

	return &App{
		Gateway: database.NewGateway(database.DB),
		Images:  imagestore.New(disk, config.UploadsDir(), config.CleanupWorkers()),
		Events:  bus,
	}, nil
}

// Deps returns the dependencies the API routes are built on.
func (a *App) Deps() routes.Deps {
	return routes.Deps{
		DB:       a.Gateway,
		Images:   a.Images,
		Events:   a.Events,
		CacheTTL: config.CacheTTL(),
	}
}

// Sweeper returns an orphan sweeper over every aggregate's image columns.
func (a *App) Sweeper() *imagestore.Sweeper {
	return imagestore.NewSweeper(a.Images, services.NewImageReferences(a.Gateway), config.OrphanGrace())
}

// Close waits for pending image deletions and releases every connection.
func (a *App) Close() {
	a.Images.Close()
	if err := cache.Close(); err != nil {
		logger.Warn("cache close", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
}

// Start boots the application and serves HTTP on APP_PORT.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sweeper := app.Sweeper()
	if spec := config.OrphanSweepSpec(); spec != "" {
		if err := sweeper.Start(spec); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHTTPKernel(app.Deps()).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("backoffice listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"FundLens/internal/scheduler"
	"FundLens/internal/usecase"
	"FundLens/pkg/config"
	xhttp "FundLens/pkg/http"
	applogger "FundLens/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	scheduler  *scheduler.Scheduler
	archiver   *usecase.NavArchiver
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

// New creates a new App instance with all dependencies. sched and archiver
// may be nil.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	httpServer *xhttp.Server,
	sched *scheduler.Scheduler,
	archiver *usecase.NavArchiver,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		scheduler:  sched,
		archiver:   archiver,
	}
}

// OnShutdown registers c to be closed after the server and jobs stop.
// Closers run in reverse registration order.
func (a *App) OnShutdown(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Run starts the application and blocks until interrupted or the HTTP
// listener fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with caller-controlled cancellation.
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Info("starting fundlens",
		applogger.String("env", a.cfg.Environment),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.String("archive", a.archiverBackend()),
	)

	if a.scheduler != nil {
		a.scheduler.Start()
		if a.cfg.Catalog.RunOnStart {
			go a.scheduler.RunCatalogNow()
		}
	}

	errCh := a.httpServer.Start()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) archiverBackend() string {
	if a.archiver == nil {
		return "none"
	}
	return a.archiver.Backend()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.logger.Info("shutting down")

	var firstErr error
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Drain pending archive writes before closing the backend.
	if a.archiver != nil {
		if err := a.archiver.Close(); err != nil {
			a.logger.Warn("archive close error", applogger.Error(err))
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("component", nc.name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}

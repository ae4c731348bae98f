// Package app assembles and runs the license service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"alqcore/internal/config"
	"alqcore/internal/infrastructure"
	"alqcore/internal/license"
	transport "alqcore/internal/transport/http"
	"alqcore/internal/websocket"
)

// Application holds the wired service graph.
type Application struct {
	cfg           *config.Config
	logger        *slog.Logger
	closer        func() error
	service       *license.Service
	hub           *websocket.Manager
	server        *http.Server
	tracing       *sdktrace.TracerProvider
	routerCleanup func()
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	meter, _, err := infrastructure.NewMeterProvider("licensed", transport.Version)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	metrics, err := license.InitMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	tracing, err := infrastructure.NewTracerProvider(cfg.Tracing, "licensed", transport.Version)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	catalog := license.DefaultCatalog()
	if cfg.License.CatalogPath != "" {
		catalog, err = license.LoadCatalog(cfg.License.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info("catalog loaded", slog.String("path", cfg.License.CatalogPath))
	}

	store := license.NewStore()
	service := license.NewService(license.Options{
		Secret:            cfg.License.Secret,
		DefaultExpiryDays: cfg.License.DefaultExpiryDays,
		EventBuffer:       cfg.License.EventBuffer,
	}, catalog, store, logger, metrics)

	hub := websocket.NewManager(logger, websocket.Options{
		AllowedOrigins:  cfg.Security.AllowedOrigins,
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
	})
	handler := transport.NewLicenseHandler(service, logger)
	router, routerCleanup := transport.NewRouter(cfg, handler, hub, logger)

	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return &Application{
		cfg:           cfg,
		logger:        logger,
		closer:        closer,
		service:       service,
		hub:           hub,
		server:        server,
		tracing:       tracing,
		routerCleanup: routerCleanup,
	}, nil
}

// Run starts the HTTP server, the event hub, and the event pump, then
// blocks until a shutdown signal arrives or a component fails.
func (a *Application) Run() error {
	defer a.closer()
	defer a.routerCleanup()
	defer a.flushTraces()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.hub.Run(ctx)
		return nil
	})

	// Pump domain events into the WebSocket hub.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-a.service.Events():
				a.hub.Broadcast(ev)
			}
		}
	})

	g.Go(func() error {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", transport.Version),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}

// flushTraces drains any batched spans before the process exits.
func (a *Application) flushTraces() {
	if a.tracing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn("trace shutdown failed", slog.String("error", err.Error()))
	}
}

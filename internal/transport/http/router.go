package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alqcore/internal/config"
	"alqcore/internal/middleware"
	"alqcore/internal/websocket"
)

// Version is stamped at build time.
var Version = "dev"

// NewRouter assembles the full HTTP surface: license API, usage API,
// event stream, metrics, and health. The returned cleanup stops
// background work owned by the middleware chain and must run on
// shutdown.
func NewRouter(cfg *config.Config, handler *LicenseHandler, hub *websocket.Manager, logger *slog.Logger) (http.Handler, func()) {
	r := chi.NewRouter()
	cleanup := func() {}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Compress(5))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
		cleanup = limiter.Stop
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/license", handler.Routes())
		r.Mount("/usage", handler.UsageRoutes())
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/ws", hub)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return r, cleanup
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/internal/history"
	"github.com/specs-group/kreiosd/internal/logger"
	"github.com/specs-group/kreiosd/pkg/api/handlers"
	apiMiddleware "github.com/specs-group/kreiosd/pkg/api/middleware"
	"github.com/specs-group/kreiosd/pkg/config"
	"github.com/specs-group/kreiosd/pkg/metrics"
)

// NewRouter creates and configures the chi router serving the control
// plane in front of d. hist may be nil, in which case /api/v1/history
// always returns an empty list.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus scrape endpoint
//   - GET /api/v1/status - connection and acquisition state
//   - GET/PUT /api/v1/params[/{name}] - C4 parameter surface
//   - POST /api/v1/acquire/{start,stop,pause,resume} - C7 control surface
//   - GET /api/v1/acquire/progress
//   - GET /api/v1/history
func NewRouter(cfg config.APIConfig, d *driver.Driver, hist *history.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(d)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	statusHandler := handlers.NewStatusHandler(d)
	paramHandler := handlers.NewParamHandler(d)
	acquireHandler := handlers.NewAcquireHandler(d)
	historyHandler := handlers.NewHistoryHandler(hist)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(apiMiddleware.JWTAuth(cfg.GetJWTSecret()))
		}

		r.Get("/status", statusHandler.Get)

		r.Route("/params", func(r chi.Router) {
			r.Get("/", paramHandler.List)
			r.Get("/{name}", paramHandler.Get)
			r.Put("/{name}", paramHandler.Set)
		})

		r.Route("/acquire", func(r chi.Router) {
			r.Post("/start", acquireHandler.Start)
			r.Post("/stop", acquireHandler.Stop)
			r.Post("/pause", acquireHandler.Pause)
			r.Post("/resume", acquireHandler.Resume)
			r.Get("/progress", acquireHandler.Progress)
		})

		r.Get("/history", historyHandler.List)
	})

	return r
}

// requestLogger is a custom middleware that logs requests using the
// internal logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logger.Info("API request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		)
	})
}

// Package rest wires the scrapbook API onto a chi router.
package rest

import (
	"net/http"

	"keepsake-backend/application/services"
	"keepsake-backend/infrastructure/config"
	"keepsake-backend/interfaces/http/rest/handlers"
	"keepsake-backend/interfaces/http/rest/middleware"
	"keepsake-backend/pkg/auth"
	"keepsake-backend/pkg/common"
	"keepsake-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router.
type Router struct {
	cfg     *config.Config
	service *services.ScrapbookService
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	cfg *config.Config,
	service *services.ScrapbookService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:     cfg,
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Unmatched routes answer with the API envelope.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusNotFound, "Resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	requireEditor := middleware.RequireEditor(rt.cfg.EditorJWTSecret, rt.cfg.JWTIssuer, rt.logger)
	interactionLimiter := auth.NewIPRateLimiter(rt.cfg.InteractionRateLimit)

	router.Route("/api", func(r chi.Router) {
		h := handlers.NewScrapbookHandler(rt.service, rt.logger)

		r.Get("/memories", h.GetMemories)

		r.Get("/moments", h.GetMoments)
		r.With(requireEditor).Post("/moments", h.AddMoment)

		r.Get("/adoration", h.GetAdoration)
		r.With(requireEditor).Post("/adoration", h.AddAdoration)

		r.Get("/story", h.GetStory)
		r.With(requireEditor).Put("/story", h.UpdateStory)

		r.Get("/surprise", h.GetSurprise)
		r.With(requireEditor).Put("/surprise", h.UpdateSurprise)

		r.With(middleware.LimitByIP(interactionLimiter)).
			Post("/interactions", h.RecordInteraction)
		r.Get("/analytics", h.GetAnalytics)

		r.Get("/theme", h.GetTheme)
		r.With(requireEditor).Put("/theme", h.UpdateTheme)
	})

	return router
}

// recoverer turns panics into the API's 500 envelope.
func (rt *Router) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				rt.logger.Error("Panic while handling request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				common.RespondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/hoyorecord/internal/api/apierr"
	"github.com/mcoot/hoyorecord/internal/api/handler"
	apimiddleware "github.com/mcoot/hoyorecord/internal/api/middleware"
	"github.com/mcoot/hoyorecord/internal/metrics"
	"github.com/mcoot/hoyorecord/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Sessions handler.Sessions
	Storage  handler.Pinger
	// Registry backs /metrics and the API request collectors (optional)
	Registry *prometheus.Registry
	// APITokenHash is a bcrypt hash. Empty disables bearer auth.
	APITokenHash string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.Sessions)
	recordHandler := handler.NewRecordHandler(cfg.Sessions)
	healthHandler := handler.NewHealthHandler(cfg.Storage)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger, apiPanicHandler))
	api.Use(middleware.Logging(cfg.Logger))
	if cfg.Registry != nil {
		api.Use(middleware.Metrics(metrics.NewHTTP(cfg.Registry)))
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(apimiddleware.BearerToken(cfg.APITokenHash))
	protected.HandleFunc("/account", accountHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/account", accountHandler.Forget).Methods(http.MethodDelete)
	protected.HandleFunc("/games", recordHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/games/{game}/{operation}", recordHandler.Run).Methods(http.MethodGet)

	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

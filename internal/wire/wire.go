package wire

import (
	"context"
	"net/http"
	"time"

	"furniture-catalog/internal/adaptor"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/internal/usecase"
	"furniture-catalog/pkg/cache"
	"furniture-catalog/pkg/middleware"
	"furniture-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of the repositories.
func Wiring(repo *repository.Repository, db Pinger, c cache.Cache, config *utils.Config, logger *zap.Logger) *App {
	tokens := utils.NewTokenManager(config.JWT)

	service := usecase.NewService(repo, tokens, c, config, logger)
	handler := adaptor.NewHandler(service, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(config.App.Name, registry)

	router := setupRouter(handler, tokens, metrics, registry, db, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	tokens middleware.TokenVerifier,
	metrics *middleware.Metrics,
	registry *prometheus.Registry,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.Origins))
	r.Use(metrics.Middleware)

	wireAuth(r, handler.Auth, tokens, logger)
	wireUser(r, handler.User, tokens, logger)
	wireCatalog(r, handler.Catalog, tokens, logger)

	r.Get("/health", healthHandler(db, config))
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

func healthHandler(db Pinger, config *utils.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{
			"app":          config.App.Name,
			"auth_backend": config.Auth.Backend,
			"database":     "up",
		}
		if err := db.Ping(ctx); err != nil {
			status["database"] = "down"
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Service unavailable", status, nil)
			return
		}

		utils.ResponseSuccess(w, "OK", status)
	}
}

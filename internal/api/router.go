package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikrodash/mikrodash/internal/api/handlers"
	mw "github.com/mikrodash/mikrodash/internal/api/middleware"
	"github.com/mikrodash/mikrodash/internal/auth"
	"github.com/mikrodash/mikrodash/internal/config"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/service"
	"github.com/mikrodash/mikrodash/internal/store"
	"go.uber.org/zap"
)

// App holds the router and request counters for the metrics endpoint.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	tenantStore := store.NewTenantStore(db)
	userStore := store.NewUserStore(db)
	routerStore := store.NewRouterStore(db)

	// Crypto primitives; secret and TTL are loaded once at startup
	hasher := auth.NewPasswordHasher(config.BcryptCost())
	tokens := auth.NewTokenService([]byte(config.JWTSecret()), config.TokenTTL())

	// Services
	authSvc := service.NewAuthService(userStore, tenantStore, hasher, tokens, config.SessionCheckTimeout())
	routerSvc := service.NewRouterService(routerStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	routerHandler := handlers.NewRouterHandler(routerSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/security-question", authHandler.SecurityQuestion)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(mw.BearerAuth(tokens)).Get("/me", authHandler.Me)
		})

		// Every router route goes through the bearer guard; handlers take
		// the tenant id only from the verified identity.
		r.Route("/routers", func(r chi.Router) {
			r.Use(mw.BearerAuth(tokens))
			r.Get("/", routerHandler.List)
			r.Post("/", routerHandler.Create)
			r.Put("/{id}", routerHandler.Update)
			r.Delete("/{id}", routerHandler.Delete)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.TenantStore = (*store.TenantStore)(nil)
	_ domain.UserStore   = (*store.UserStore)(nil)
	_ domain.RouterStore = (*store.RouterStore)(nil)
)

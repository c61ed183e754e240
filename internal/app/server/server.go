package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"skilltrack/internal/domain/analytics"
	"skilltrack/internal/domain/auth"
	"skilltrack/internal/domain/skills"
	"skilltrack/internal/domain/tasks"
	"skilltrack/internal/platform/config"
	"skilltrack/internal/platform/db"
	"skilltrack/internal/platform/metrics"
	analyticshandler "skilltrack/internal/transport/http/handlers/analytics"
	authhandler "skilltrack/internal/transport/http/handlers/auth"
	skillshandler "skilltrack/internal/transport/http/handlers/skills"
	taskshandler "skilltrack/internal/transport/http/handlers/tasks"
	"skilltrack/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{Config: cfg, Pool: pool}
	app.Router = buildRouter(cfg, pool)
	return app, nil
}

func (a *App) Close() {
	a.Pool.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("skilltrack server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func buildRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	skillStore := skills.NewStore(pool)
	snapshot := skills.NewSnapshot(skillStore.ActiveSkills, cfg.SkillCacheTTL)

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	taskService := tasks.NewService(tasks.NewStore(pool), snapshot)
	analyticsService := analytics.NewService(analytics.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	if cfg.MetricsEnabled {
		collector := metrics.New()
		router.Use(middleware.Metrics(collector))
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService, cfg.AllowSignup)
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
		r.Post("/auth/mfa/activate", authHandler.HandleMFAActivate)

		skillshandler.NewHandler(skillStore, snapshot).RegisterRoutes(r)
		taskshandler.NewHandler(taskService).RegisterRoutes(r)
		analyticshandler.NewHandler(analyticsService).RegisterRoutes(r)
	})

	return router
}

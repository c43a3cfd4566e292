package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/xpertfs/xpert-app-backend/internal/domain/employees"
	"github.com/xpertfs/xpert-app-backend/internal/domain/expenses"
	"github.com/xpertfs/xpert-app-backend/internal/domain/finance"
	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
	"github.com/xpertfs/xpert-app-backend/internal/platform/config"
	"github.com/xpertfs/xpert-app-backend/internal/platform/db"
	"github.com/xpertfs/xpert-app-backend/internal/platform/metrics"
	employeehandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/employees"
	expensehandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/expenses"
	laborhandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/labor"
	projecthandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/projects"
	ratehandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/rates"
	reporthandler "github.com/xpertfs/xpert-app-backend/internal/transport/http/handlers/reports"
	"github.com/xpertfs/xpert-app-backend/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	txManager := db.NewTxManager(pool)
	collector := metrics.New()

	employeeStore := employees.NewStore(pool)
	rateStore := rates.NewStore(pool)
	laborStore := labor.NewStore(pool)
	projectStore := projects.NewStore(pool)
	expenseStore := expenses.NewStore(pool)

	rateService := rates.NewService(rateStore, txManager)
	laborService := labor.NewService(laborStore, txManager, rateService, employeeStore, cfg.SettleRetries)
	projectService := projects.NewService(projectStore)
	financeService := finance.NewService(projectService, laborService, expenseStore, cfg.StatementDir, cfg.DefaultCurrency)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Identity(cfg.TokenSecret))

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

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireIdentity)

		employeehandler.NewHandler(employeeStore).RegisterRoutes(r)
		ratehandler.NewHandler(rateService).RegisterRoutes(r)
		laborhandler.NewHandler(laborService).RegisterRoutes(r)
		projecthandler.NewHandler(projectService).RegisterRoutes(r)
		expensehandler.NewHandler(expenseStore).RegisterRoutes(r)
		reporthandler.NewHandler(financeService).RegisterRoutes(r)
	})

	log.Printf("server listening on %s (%s)", cfg.Addr, cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

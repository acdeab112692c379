package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dmulenga/kwacha-commerce/internal/config"
	"github.com/dmulenga/kwacha-commerce/internal/modules/auth"
	"github.com/dmulenga/kwacha-commerce/internal/modules/catalog"
	"github.com/dmulenga/kwacha-commerce/internal/modules/order"
	"github.com/dmulenga/kwacha-commerce/internal/modules/user"
	"github.com/dmulenga/kwacha-commerce/internal/notify"
	"github.com/dmulenga/kwacha-commerce/internal/sequence"
	"github.com/dmulenga/kwacha-commerce/internal/telemetry"
)

func main() {
	// .env is optional; deployed environments set real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	var logger *slog.Logger
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database")

	metrics := telemetry.New()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	seqRepo := sequence.NewPostgresRepository(db)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, seqRepo)

	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	auth.NewHandler(authService).RegisterRoutes(router)
	user.NewHandler(userService, auth.Middleware(authService)).RegisterRoutes(router)

	// ── Catalog & stock ledger ──────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, seqRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, userService, catalogService,
		seqRepo, notify.NewLogNotifier(logger), logger, metrics)
	order.NewHandler(orderService, auth.Middleware(authService)).RegisterRoutes(router)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orderService.ResetSequenceIfUnused(ctx); err != nil {
		logger.Warn("order sequence maintenance failed", slog.String("error", err.Error()))
	}
	cancel()

	// ── Operational endpoints ───────────────────────────────
	router.Handle("/metrics", metrics.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── Start server ────────────────────────────────────────
	logger.Info("API server starting", slog.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

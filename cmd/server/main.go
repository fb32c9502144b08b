package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/listenband/backend/internal/api"
	"github.com/listenband/backend/internal/infrastructure/config"
	"github.com/listenband/backend/internal/metrics"
	"github.com/listenband/backend/internal/scoring"
	"github.com/listenband/backend/internal/service"
	"github.com/listenband/backend/internal/store"

	_ "github.com/listenband/backend/docs" // generated swagger docs
)

// @title           Listening Band API
// @version         1.0
// @description     Score IELTS listening exams: import exam documents, collect answers and get band scores with per-question feedback.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()
	scoringSvc := service.NewScoringService(db, scoring.NewEngine(), m, cfg.ScoringWorkers, logger,
		service.WithSheetTTL(cfg.SheetTTL),
	)
	handler := api.NewHandler(db, scoringSvc, logger)

	if cfg.ExamFile != "" {
		data, err := os.ReadFile(cfg.ExamFile)
		if err != nil {
			logger.Error("failed to read exam file", "error", err, "path", cfg.ExamFile)
			os.Exit(1)
		}
		ex, err := scoringSvc.ImportExam(context.Background(), data, cfg.ExamTitle)
		if err != nil {
			logger.Error("failed to import exam file", "error", err, "path", cfg.ExamFile)
			os.Exit(1)
		}
		logger.Info("exam file imported", "exam_id", ex.ID, "path", cfg.ExamFile)
	}

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	mux.Handle("GET /metrics", m.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: RequestID → [RealIP] → Logging → Recoverer → CORS → RateLimit → metrics → mux
	// RealIP rewrites RemoteAddr from client-supplied headers, which would
	// let any client pick its own rate limit key. Only trust them behind a proxy.
	chain := chi.Middlewares{middleware.RequestID}
	if cfg.TrustProxyHeaders {
		chain = append(chain, middleware.RealIP)
	}
	chain = append(chain,
		api.Logging(logger),
		middleware.Recoverer,
		api.CORS(cfg.CORSOrigins),
		api.RateLimit(cfg.RateLimit, time.Minute),
	)
	root := chain.Handler(m.Middleware(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

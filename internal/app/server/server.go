package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"opsconsole/internal/domain/attachment"
	"opsconsole/internal/domain/auth"
	"opsconsole/internal/domain/payroll"
	"opsconsole/internal/domain/quote"
	"opsconsole/internal/platform/analytics"
	"opsconsole/internal/platform/config"
	"opsconsole/internal/platform/db"
	"opsconsole/internal/platform/logging"
	"opsconsole/internal/platform/metrics"
	"opsconsole/internal/platform/serial"
	"opsconsole/internal/transport/http/api"
	attachmenthandler "opsconsole/internal/transport/http/handlers/attachment"
	authhandler "opsconsole/internal/transport/http/handlers/auth"
	payrollhandler "opsconsole/internal/transport/http/handlers/payroll"
	quotehandler "opsconsole/internal/transport/http/handlers/quote"
	"opsconsole/internal/transport/http/middleware"
)

func Run() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.WithError(err).Fatal("seed failed")
		}
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		log.WithError(err).Fatal("storage dir unavailable")
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	var hours payroll.HoursSource
	if cfg.AnalyticsBaseURL != "" {
		hours = analytics.NewClient(cfg.AnalyticsBaseURL, cfg.AnalyticsToken)
	} else {
		log.Warn("ANALYTICS_BASE_URL not set, hours backfill disabled")
	}

	runner := serial.New(16)
	payrollService := payroll.NewService(payroll.NewStore(pool), hours, runner, log)
	quoteService := quote.NewService(quote.NewStore(pool), log)
	attachmentService := attachment.NewService(attachment.NewStore(pool), cfg.StorageDir, log)
	authService := auth.NewService(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, collector))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

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
		authHandler := authhandler.NewHandler(authService, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)

		payrollHandler := payrollhandler.NewHandler(payrollService, collector)
		payrollHandler.RegisterRoutes(r)

		quoteHandler := quotehandler.NewHandler(quoteService, attachmentService, collector)
		quoteHandler.RegisterRoutes(r)

		attachmentHandler := attachmenthandler.NewHandler(attachmentService)
		attachmentHandler.RegisterRoutes(r)

		if collector != nil {
			r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				requestID := middleware.GetRequestID(r.Context())
				if _, ok := middleware.GetUser(r.Context()); !ok {
					api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
					return
				}
				api.Success(w, collector.Snapshot(), requestID)
			})
		}
	})

	log.WithField("addr", cfg.Addr).Info("ops console listening")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}

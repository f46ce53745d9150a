package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zephyrs-web/config"
	_ "zephyrs-web/docs" // Important for Swagger
	"zephyrs-web/internal/delivery/http/middleware"
	v1 "zephyrs-web/internal/delivery/http/v1"
	"zephyrs-web/internal/domain"
	"zephyrs-web/internal/repository/postgres"
	"zephyrs-web/internal/shell"
	"zephyrs-web/internal/usecase"
	"zephyrs-web/pkg/database"
	"zephyrs-web/pkg/email"
	"zephyrs-web/pkg/logger"
	"zephyrs-web/pkg/redis"
	"zephyrs-web/pkg/security"
	"zephyrs-web/pkg/validation"
	"zephyrs-web/web"

	"github.com/gin-gonic/gin"
)

// @title           Zephyrs Fitness Web API
// @version         1.0
// @description     Contact form and membership catalog for the Zephyrs Fitness site.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.Environment())
	secLog := security.InitSecurityLogger("zephyrs-web", cfg.Environment())
	defer secLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var contactUC *usecase.ContactSessions
	var limiter *middleware.RateLimiter
	var cleanups []func()
	closeAll := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	defer closeAll()

	// 3. Validate configuration, then mount the site
	guard := shell.NewGuard(cfg, config.RequiredKeys, logger.Log, os.Stderr)
	handler, err := guard.Boot(func() (http.Handler, error) {
		renderer, err := web.NewRenderer()
		if err != nil {
			return nil, err
		}

		// Optional database: inquiry archive and security event persistence
		var inquiryRepo domain.InquiryRepository
		checks := map[string]usecase.HealthCheck{"database": nil, "redis": nil}
		if cfg.DBUrl != "" {
			pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
			if err != nil {
				logger.Log.Error("Failed to connect to database, inquiries will not be archived", "error", err)
			} else {
				cleanups = append(cleanups, pool.Close)
				inquiryRepo = postgres.NewInquiryRepository(pool)
				secLog.Persist(security.NewSecurityEventRepository(pool).PersistEvent, 256)
				cleanups = append(cleanups, func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := secLog.Close(ctx); err != nil {
						logger.Log.Warn("Security events not fully persisted", "error", err, "dropped", secLog.Dropped())
					}
				})
				checks["database"] = pool.Ping
			}
		}

		// Optional Redis: shared rate limit counters
		redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		switch {
		case errors.Is(err, redis.ErrNotConfigured):
		case err != nil:
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		default:
			cleanups = append(cleanups, func() { _ = redisClient.Close() })
			checks["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
		}
		limiter = middleware.NewRateLimiter(redisClient, secLog)

		// 4. Setup Email Service
		emailService := email.NewEmailService(cfg)
		if !emailService.IsConfigured() {
			logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
		}

		// 5. Setup UseCases
		validate := validation.New()
		contactUC = usecase.NewContactUsecase(emailService, inquiryRepo, secLog, logger.Log, validate, usecase.ContactOptions{
			Recipients:  usecase.Recipients{To: cfg.ContactEmailTo, Bcc: cfg.ContactEmailBcc},
			IdleTimeout: time.Duration(cfg.ContactSessionIdleMinutes) * time.Minute,
			Production:  cfg.IsProduction(),
		})

		// 6. Setup Router
		return v1.NewRouter(v1.RouterDeps{
			ContactUC:   contactUC,
			SiteUC:      usecase.NewSiteUsecase(),
			HealthUC:    usecase.NewHealthUsecase(emailService, inquiryRepo, checks),
			Renderer:    renderer,
			RateLimiter: limiter,
			Validate:    validate,
			SecLog:      secLog,
			Logger:      logger.Log,
			Config:      cfg,
		}), nil
	})
	if err != nil {
		var cfgErr *shell.ConfigurationError
		if errors.As(err, &cfgErr) {
			secLog.Log(ctx, security.SecurityEvent{
				Event:   security.EventConfigInvalid,
				Details: map[string]interface{}{"missing": cfgErr.Missing},
			})
		}
		logger.Log.Error("Startup failed", "error", err)
		closeAll()
		_ = secLog.Sync()
		os.Exit(1)
	}

	// Background workers stop with ctx
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		contactUC.RunJanitor(ctx)
	}()
	go limiter.RunCleanup(ctx, 5*time.Minute)

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RelayTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.Info("Starting Zephyrs web", "port", cfg.Port, "env", cfg.Environment())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RelayTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	<-janitorDone

	logger.Log.Info("Server exiting")
}

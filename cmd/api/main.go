package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/beqaperanidze/prj-customer-notification/pkg/auth"
	"github.com/beqaperanidze/prj-customer-notification/pkg/logger"
	"github.com/beqaperanidze/prj-customer-notification/pkg/metrics"
	"github.com/beqaperanidze/prj-customer-notification/pkg/security"

	"github.com/beqaperanidze/prj-customer-notification/internal/config"
	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	addressHandler "github.com/beqaperanidze/prj-customer-notification/internal/handler/address"
	authHandler "github.com/beqaperanidze/prj-customer-notification/internal/handler/auth"
	customerHandler "github.com/beqaperanidze/prj-customer-notification/internal/handler/customer"
	notificationHandler "github.com/beqaperanidze/prj-customer-notification/internal/handler/notification"
	preferenceHandler "github.com/beqaperanidze/prj-customer-notification/internal/handler/preference"
	"github.com/beqaperanidze/prj-customer-notification/internal/middleware"
	"github.com/beqaperanidze/prj-customer-notification/internal/migration"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository/postgres"
	"github.com/beqaperanidze/prj-customer-notification/internal/router"
	addressService "github.com/beqaperanidze/prj-customer-notification/internal/service/address"
	authService "github.com/beqaperanidze/prj-customer-notification/internal/service/auth"
	customerService "github.com/beqaperanidze/prj-customer-notification/internal/service/customer"
	notificationService "github.com/beqaperanidze/prj-customer-notification/internal/service/notification"
	preferenceService "github.com/beqaperanidze/prj-customer-notification/internal/service/preference"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	appLog := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLog.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := migration.Run(db); err != nil {
		appLog.Fatal(err, "failed to run migrations")
	}

	m := metrics.New("customer_notification")
	m.DatabaseConnections.Set(float64(db.Stats().OpenConnections))

	// Repositories
	customerRepo := postgres.NewCustomerRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	preferenceRepo := postgres.NewPreferenceRepository(db)
	notificationRepo := postgres.NewNotificationLogRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	customerSvc := customerService.NewService(customerRepo)
	addressSvc := addressService.NewService(addressRepo, customerRepo)
	preferenceSvc := preferenceService.NewService(preferenceRepo, customerRepo)
	notificationSvc := notificationService.NewService(notificationRepo, customerRepo, addressRepo, m)
	authSvc := authService.NewService(adminRepo, jwtSvc, hasher)

	// Handlers and middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.New(
		authMiddleware,
		healthH,
		authHandler.NewHandler(authSvc),
		customerHandler.NewHandler(customerSvc),
		addressHandler.NewHandler(addressSvc),
		preferenceHandler.NewHandler(preferenceSvc),
		notificationHandler.NewHandler(notificationSvc),
		m,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RPS),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatal(err, "server forced to shutdown")
	}

	appLog.Info("server exited properly")
}

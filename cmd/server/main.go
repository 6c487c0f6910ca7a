package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventmanagement/config"
	_ "eventmanagement/docs"
	authadapter "eventmanagement/internal/adapters/auth"
	emailadapter "eventmanagement/internal/adapters/email"
	delivery "eventmanagement/internal/delivery/http"
	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
	"eventmanagement/internal/repository/postgres"
	"eventmanagement/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	clock := domain.SystemClock()

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	tokens := authadapter.NewJWTTokens(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(10)

	// Services
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	ledger := services.NewSeatLedger(eventRepo, registrationRepo, emailService, clock, logger, serviceTimeout)
	queries := services.NewEventQueryService(eventRepo, registrationRepo, clock, serviceTimeout)
	events := services.NewEventService(eventRepo, userRepo, emailService, clock, logger, serviceTimeout)
	auth := services.NewAuthService(userRepo, hasher, tokens, emailService, cfg.JWTExpiry, clock, logger)
	users := services.NewUserService(userRepo, hasher, serviceTimeout)

	// HTTP surface
	mux := delivery.NewRouter(
		controllers.NewEventController(logger, events, queries, ledger, clock),
		controllers.NewAttendeeController(logger, ledger),
		controllers.NewAuthController(logger, auth),
		controllers.NewUserController(logger, users, queries),
		tokens,
	)
	var handler http.Handler = mux
	handler = middleware.Sweep(ledger, clock, time.Minute, logger, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background sweep: the request-path sweep only covers busy deployments,
	// this ticker keeps statuses fresh under low traffic too.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := ledger.SweepExpiredEvents(ctx, clock.Now()); err != nil {
					logger.Error("background sweep", "err", err)
				}
			}
		}
	}()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

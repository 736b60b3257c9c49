// Command server runs the Conference Central HTTP API together with the
// background task worker and the announcement scheduler.
//
// @title Conference Central API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey TaskSecret
// @in header
// @name X-Task-Secret
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/taskqueue"
	httpdelivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/internal/worker"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	// Repositories
	tx := postgres.NewTransactor(db)
	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)

	// Infrastructure
	store := cache.NewRedisCache(rdb, 0)
	queue := taskqueue.New(rdb, cfg.TaskQueue, cfg.TaskMaxAttempts, logger)

	// Services
	timeout := cfg.RequestTimeout
	profileService := services.NewProfileService(tx, profileRepo, timeout)
	conferenceService := services.NewConferenceService(tx, conferenceRepo, profileRepo, speakerRepo, queue, logger, timeout)
	sessionService := services.NewSessionService(tx, sessionRepo, conferenceRepo, speakerRepo, profileRepo, queue, logger, timeout)
	registrationService := services.NewRegistrationService(tx, profileRepo, conferenceRepo, sessionRepo, timeout)
	featuredService := services.NewFeaturedSpeakerService(sessionRepo, speakerRepo, store, logger, timeout)
	announcementService := services.NewAnnouncementService(conferenceRepo, store, logger, timeout)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	handlers := worker.Handlers(featuredService, announcementService, emailService, logger)
	for route, h := range handlers {
		queue.Register(route, h)
	}

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Profile:      controllers.NewProfileController(logger, profileService),
		Conference:   controllers.NewConferenceController(logger, conferenceService),
		Session:      controllers.NewSessionController(logger, sessionService),
		Registration: controllers.NewRegistrationController(logger, registrationService),
		Cache:        controllers.NewCacheController(logger, featuredService, announcementService),
		Task:         controllers.NewTaskController(logger, handlers),
	}, auth.NewJWTVerifier(cfg.JWTSecret), cfg.TaskSecret, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return queue.Run(gctx)
	})
	g.Go(func() error {
		return worker.ScheduleAnnouncements(gctx, queue, cfg.AnnouncementInterval, logger)
	})

	return g.Wait()
}

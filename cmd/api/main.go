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

	"eventdesk/config"
	"eventdesk/internal/adapters/auth"
	"eventdesk/internal/adapters/email"
	"eventdesk/internal/adapters/printer"
	deliveryhttp "eventdesk/internal/delivery/http"
	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/repository/postgres"
	"eventdesk/internal/services"
)

// @title Event Desk API
// @version 1.0
// @description Event management backend: enrollments, events, speakers, sponsors, supporters, statistics, and badge printing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("database unreachable", "err", err)
		os.Exit(1)
	}

	// Repositories
	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	sponsorRepo := postgres.NewSponsorRepository(db)
	supporterRepo := postgres.NewSupporterRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Adapters
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(12)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	badgePrinter := printer.NewClient(cfg.PrinterDelay, logger)

	// Services
	const svcTimeout = 10 * time.Second
	auditor := services.NewAuditor(auditRepo, logger)
	storage := services.StorageConfig{Host: cfg.StorageHost, Bucket: cfg.StorageBucket}
	enrollmentSvc := services.NewEnrollmentService(enrollmentRepo, eventRepo, userRepo, auditor, mailer, renderer, logger, svcTimeout)
	eventSvc := services.NewEventService(eventRepo, enrollmentRepo, auditor, storage, logger, svcTimeout)
	speakerSvc := services.NewSpeakerService(speakerRepo, eventRepo, userRepo, auditor, logger, svcTimeout)
	sponsorSvc := services.NewSponsorService(sponsorRepo, eventRepo, auditor, logger, svcTimeout)
	supporterSvc := services.NewSupporterService(supporterRepo, eventRepo, auditor, logger, svcTimeout)
	statsSvc := services.NewStatsService(statsRepo, logger, svcTimeout)
	userSvc := services.NewUserService(userRepo, roleRepo, enrollmentRepo, speakerRepo, hasher, jwtManager, auditor, cfg.JWTExpiry, logger, svcTimeout)
	badgeSvc := services.NewBadgeService(enrollmentRepo, eventRepo, badgePrinter, auditor, logger, 30*time.Second)

	// HTTP
	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:       controllers.NewAuthController(logger, userSvc),
		User:       controllers.NewUserController(logger, userSvc),
		Enrollment: controllers.NewEnrollmentController(logger, enrollmentSvc),
		Event:      controllers.NewEventController(logger, eventSvc),
		Speaker:    controllers.NewSpeakerController(logger, speakerSvc),
		Sponsor:    controllers.NewSponsorController(logger, sponsorSvc),
		Supporter:  controllers.NewSupporterController(logger, supporterSvc),
		Stats:      controllers.NewStatsController(logger, statsSvc),
		Badge:      controllers.NewBadgeController(logger, badgeSvc),
	}, jwtManager, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins,
		middleware.Metrics(
			middleware.LoggingMiddleware(logger, mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}

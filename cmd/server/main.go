package main

import (
	"context"
	"fmt"
	"log"

	_ "orgcomply/docs"
	"orgcomply/internal/appeal"
	"orgcomply/internal/config"
	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/handler"
	"orgcomply/internal/notify/noop"
	"orgcomply/internal/notify/ses"
	"orgcomply/internal/port"
	"orgcomply/internal/repository/postgres"
	"orgcomply/internal/router"
	"orgcomply/internal/service"
	s3storage "orgcomply/internal/storage/s3"
)

// @title OrgComply API
// @version 1.0
// @description Compliance paperwork tracking for student organizations.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	eventRepo := postgres.NewEventRepo(db)
	subRepo := postgres.NewSubmissionRepo(db)
	notifRepo := postgres.NewNotificationRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notification delivery
	var notifier port.Notifier
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.OrgDomain)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNoopNotifier()
	}

	// Domain wiring: hierarchy, deadline policy, appeal state machine
	hier := domain.NewHierarchy(cfg.Hierarchy.ReviewerMap())
	policy := deadline.Policy{
		AccomplishmentDays:     cfg.Policy.AccomplishmentDays,
		LiquidationDays:        cfg.Policy.LiquidationDays,
		RearmOnAppealRejection: cfg.Policy.RearmOnAppealRejection,
	}
	synth := deadline.NewSynthesizer(policy, hier)
	detector := deadline.NewDetector(synth)
	machine := appeal.NewMachine(hier, policy.RearmOnAppealRejection)

	// Initialize services
	calendarSvc := service.NewCalendarService(eventRepo, subRepo, hier, synth, machine)
	eventSvc := service.NewEventService(eventRepo, notifRepo, notifier, hier)
	submissionSvc := service.NewSubmissionService(subRepo, eventRepo, notifRepo, notifier, hier, detector)
	appealSvc := service.NewAppealService(eventRepo, subRepo, notifRepo, notifier, s3Client, machine, synth, &cfg.S3)

	// Initialize handlers
	calendarH := handler.NewCalendarHandler(calendarSvc)
	eventH := handler.NewEventHandler(eventSvc)
	submissionH := handler.NewSubmissionHandler(submissionSvc)
	appealH := handler.NewAppealHandler(appealSvc)
	complianceH := handler.NewComplianceHandler(submissionSvc)
	healthH := handler.NewHealthHandler(db)

	// Scheduled missed-deadline sweep
	if cfg.Sweep.Enabled {
		worker := service.NewSweepWorker(eventRepo, subRepo, notifRepo, notifier, detector, hier, cfg.Sweep.Schedule)
		if err := worker.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start sweep worker: %w", err)
		}
		defer worker.Stop()
	}

	// Setup router
	r := router.Setup(cfg, hier, calendarH, eventH, submissionH, appealH, complianceH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

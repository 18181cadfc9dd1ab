package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reminder-service/internal/config"
	"reminder-service/internal/domain/entity"
	domainservice "reminder-service/internal/domain/service"
	croninfra "reminder-service/internal/infrastructure/cron"
	"reminder-service/internal/infrastructure/db"
	"reminder-service/internal/infrastructure/kafka"
	"reminder-service/internal/infrastructure/postgres"
	"reminder-service/internal/infrastructure/push"
	redisinfra "reminder-service/internal/infrastructure/redis"
	"reminder-service/internal/infrastructure/smtp"
	"reminder-service/internal/service"
)

// App represents the application.
type App struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a new application instance.
func New(cfg *config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Run wires the service together and blocks until a shutdown signal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL.
	a.log.Info("connecting to postgres")
	pool, err := db.NewPostgresPool(ctx, &a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close(pool)

	// Initialize Redis.
	a.log.Info("connecting to redis")
	redisClient, err := redisinfra.NewRedisClient(&a.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() { _ = redisinfra.Close(redisClient) }()

	// Repositories and stores.
	reminderRepo := postgres.NewReminderRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	snoozeStore := redisinfra.NewSnoozeStore(redisClient)

	// Dispatch channels. A channel left unconfigured degrades to a
	// logged no-op instead of failing startup.
	var emailSender domainservice.EmailSender
	if a.cfg.SMTP.Host != "" {
		smtpClient, err := smtp.NewClient(&a.cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to initialize SMTP client: %w", err)
		}
		emailSender = smtpClient
	} else {
		a.log.Warn("smtp not configured, email reminders disabled")
	}
	pushClient := push.NewClient(&a.cfg.Push)
	if !pushClient.Supported() {
		a.log.Warn("push gateway not configured, browser reminders disabled")
	}

	// Core services.
	dispatcher := service.NewDispatchService(emailSender, pushClient, notificationRepo, a.log)
	scheduler := service.NewReminderScheduler(dispatcher, a.log)
	defer scheduler.CancelAll()
	reminders := service.NewReminderService(scheduler, reminderRepo, snoozeStore, a.log)

	// Rebuild the registry from the read model.
	if err := reminders.ResyncAll(ctx); err != nil {
		return fmt.Errorf("failed to resync reminders: %w", err)
	}

	// Offset-change watcher on the effective zone.
	zonePref := entity.ZonePreference{
		Zone:       a.cfg.Scheduler.Zone,
		Manual:     a.cfg.Scheduler.Zone != "",
		DeviceZone: time.Local.String(),
	}
	watcher := croninfra.NewOffsetWatcher(zonePref.EffectiveZone, reminders, a.cfg.Scheduler.OffsetCheckInterval, a.log)
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start offset watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.Wake() // record the baseline offset now, not an hour from now

	// Habit events consumer.
	consumer := kafka.NewConsumer(&a.cfg.Kafka, reminders, a.log)
	consumerErrChan := make(chan error, 1)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			consumerErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGCONT)

	a.log.Info("reminder service started",
		zap.String("service", a.cfg.Service.Name),
		zap.String("environment", a.cfg.Service.Environment),
	)

	for {
		select {
		case err := <-consumerErrChan:
			a.log.Error("habit-events consumer failed", zap.Error(err))
			return err

		case sig := <-sigChan:
			if sig == syscall.SIGCONT {
				// Process resumed; the offset may be stale.
				watcher.Wake()
				continue
			}

			a.log.Info("shutdown signal received", zap.String("signal", sig.String()))
			cancel()
			if err := consumer.Close(); err != nil {
				a.log.Warn("error closing consumer", zap.Error(err))
			}
			a.log.Info("application stopped")
			return nil
		}
	}
}

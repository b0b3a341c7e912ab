package scheduler

import (
	"context"
	"time"

	"github.com/quotify/quotifyd/internal/config"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/quotify/quotifyd/internal/notifications"
	"github.com/quotify/quotifyd/internal/pipeline"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service schedules the daily quote-of-the-day run
type Service struct {
	config   *config.Config
	pipeline *pipeline.Service
	notifier notifications.NotificationInterface
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipelineService *pipeline.Service, notifier notifications.NotificationInterface) *Service {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logrus.Warnf("Unknown timezone %q, falling back to UTC", cfg.TimeZone)
		location = time.UTC
	}

	return &Service{
		config:   cfg,
		pipeline: pipelineService,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(location)),
	}
}

// Start begins the scheduled quote runs
func (s *Service) Start() error {
	if s.config.QuoteSchedule == "off" {
		logrus.Info("Quote schedule disabled")
		return nil
	}

	// Run daily at 8 AM in the configured timezone
	_, err := s.cron.AddFunc("0 0 8 * * *", func() {
		logrus.Info("Starting scheduled quote-of-the-day run")
		s.runDaily()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.QuoteSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}

func (s *Service) runDaily() {
	snapshot, accepted := s.pipeline.Fetch(context.Background())
	if !accepted {
		logrus.Warn("Daily quote run skipped - a fetch is already in flight")
		return
	}

	if snapshot.State == pipeline.StateDegraded.String() {
		logrus.Error("Daily quote run found every source unavailable")
		return
	}

	daily := &models.DailyQuote{
		GeneratedAt: time.Now().UTC(),
		Quote:       snapshot.Quote,
		Analytics:   snapshot.Analytics,
		UsedBackup:  snapshot.UsedBackup,
	}

	if err := s.notifier.SendDailyQuote(daily); err != nil {
		logrus.Errorf("Failed to send daily quote: %v", err)
	}
}

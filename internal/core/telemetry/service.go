package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/core/alerting"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Service is the metric intake. Persisting a sample and evaluating it
// through the alerting pipeline happen in one transaction, so a validation
// failure leaves no partial alert or notification side effects.
type Service struct {
	db       *sqlx.DB
	repos    *database.Repositories
	settings *alerting.SettingsResolver
	counters alerting.Counters
	sinks    []alerting.AlertEventSink
	cfg      config.TelemetryConfig
	log      *logrus.Logger
	cron     *cron.Cron
}

// NewService creates the telemetry service
func NewService(db *sqlx.DB, repos *database.Repositories, settings *alerting.SettingsResolver, counters alerting.Counters, cfg config.TelemetryConfig, log *logrus.Logger, sinks ...alerting.AlertEventSink) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		settings: settings,
		counters: counters,
		sinks:    sinks,
		cfg:      cfg,
		log:      log,
	}
}

// Record persists one sample and runs the full evaluation pipeline over it
func (s *Service) Record(ctx context.Context, req *models.RecordMetricRequest) (*models.Metric, error) {
	if req.DeviceID == "" {
		return nil, apperrors.NewValidation("device_id is required")
	}
	if req.MetricType == "" {
		return nil, apperrors.NewValidation("metric_type is required")
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	metric := &models.Metric{
		DeviceID:    req.DeviceID,
		InterfaceID: req.InterfaceID,
		MetricType:  req.MetricType,
		Value:       req.Value,
		RecordedAt:  recordedAt.UTC(),
	}

	err := database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)
		if err := r.Metrics.Create(ctx, metric); err != nil {
			return err
		}
		pipeline := alerting.NewPipeline(r, s.settings, s.counters, s.log, s.sinks...)
		return pipeline.Process(ctx, metric)
	})
	if err != nil {
		return nil, err
	}

	if s.counters != nil {
		s.counters.RecordSample(metric.MetricType)
	}

	return metric, nil
}

// List returns samples matching the filter
func (s *Service) List(ctx context.Context, filter *models.MetricFilter) ([]*models.Metric, error) {
	return s.repos.Metrics.List(ctx, filter)
}

// StartRetention schedules the periodic purge of expired samples
func (s *Service) StartRetention() error {
	if s.cfg.RetentionDays <= 0 {
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() {
		if err := s.purge(context.Background()); err != nil {
			s.log.WithError(err).Error("Metric retention purge failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention purge: %w", err)
	}
	s.cron.Start()

	s.log.WithFields(logrus.Fields{
		"schedule":       s.cfg.CleanupSchedule,
		"retention_days": s.cfg.RetentionDays,
	}).Info("Metric retention purge scheduled")

	return nil
}

// StopRetention stops the purge scheduler and waits for a running job
func (s *Service) StopRetention() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Service) purge(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.repos.Metrics.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("Expired metric samples purged")
	}
	return nil
}

package telemetry

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/core/alerting"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

type telemetryFixture struct {
	service *Service
	repos   *database.Repositories
}

func newTelemetryFixture(t *testing.T) *telemetryFixture {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:         database.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "test.db"),
		MigrationsPath: "../../../migrations",
		MaxConnections: 2,
	}
	db, err := database.Initialize(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg))

	log := logrus.New()
	log.SetOutput(io.Discard)

	repos := database.NewRepositories(db)
	settings := alerting.NewSettingsResolver(config.AlertingConfig{}, repos.Settings, log)

	return &telemetryFixture{
		service: NewService(db, repos, settings, nil, config.TelemetryConfig{}, log),
		repos:   repos,
	}
}

func TestService_RecordValidation(t *testing.T) {
	service := NewService(nil, nil, nil, nil, config.TelemetryConfig{}, logrus.New())

	_, err := service.Record(context.Background(), &models.RecordMetricRequest{MetricType: models.MetricTypeLatency})
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.Record(context.Background(), &models.RecordMetricRequest{DeviceID: "device-1"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_RecordPersistsSample(t *testing.T) {
	f := newTelemetryFixture(t)
	ctx := context.Background()

	recordedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	metric, err := f.service.Record(ctx, &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeLatency,
		Value:      42,
		RecordedAt: recordedAt,
	})
	require.NoError(t, err)
	require.NotEmpty(t, metric.ID)
	assert.True(t, metric.RecordedAt.Equal(recordedAt))

	deviceID := "device-1"
	samples, err := f.service.List(ctx, &models.MetricFilter{DeviceID: &deviceID})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 42.0, samples[0].Value)
}

func TestService_RecordDefaultsRecordedAt(t *testing.T) {
	f := newTelemetryFixture(t)

	before := time.Now().UTC()
	metric, err := f.service.Record(context.Background(), &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeLatency,
		Value:      10,
	})
	require.NoError(t, err)
	assert.False(t, metric.RecordedAt.Before(before))
}

func TestService_RecordEvaluatesRules(t *testing.T) {
	f := newTelemetryFixture(t)
	ctx := context.Background()

	rule := &models.AlertRule{
		Name:       "high latency",
		MetricType: models.MetricTypeLatency,
		Operator:   models.OperatorGT,
		Threshold:  80,
		Severity:   models.SeverityCritical,
		IsActive:   true,
	}
	require.NoError(t, f.repos.Rules.Create(ctx, rule))

	_, err := f.service.Record(ctx, &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeLatency,
		Value:      120,
	})
	require.NoError(t, err)

	deviceID := "device-1"
	alert, err := f.repos.Alerts.GetActiveByKey(ctx, rule.ID, &deviceID, nil)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertStatusOpen, alert.Status)
	assert.Equal(t, 120.0, alert.MeasuredValue)

	// A healthy reading resolves it again
	_, err = f.service.Record(ctx, &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeLatency,
		Value:      20,
	})
	require.NoError(t, err)

	alert, err = f.repos.Alerts.GetActiveByKey(ctx, rule.ID, &deviceID, nil)
	require.NoError(t, err)
	assert.Nil(t, alert)
}

type countingCollector struct {
	samples []string
	queued  []string
}

func (c *countingCollector) RecordSample(metricType string) {
	c.samples = append(c.samples, metricType)
}

func (c *countingCollector) RecordNotificationQueued(channel string) {
	c.queued = append(c.queued, channel)
}

func TestService_RecordCountsIngestedSamples(t *testing.T) {
	f := newTelemetryFixture(t)
	counters := &countingCollector{}
	f.service.counters = counters
	ctx := context.Background()

	_, err := f.service.Record(ctx, &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeLatency,
		Value:      42,
	})
	require.NoError(t, err)

	_, err = f.service.Record(ctx, &models.RecordMetricRequest{
		DeviceID:   "device-1",
		MetricType: models.MetricTypeUptime,
		Value:      1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"latency", "uptime"}, counters.samples)

	// A rejected sample is not counted
	_, err = f.service.Record(ctx, &models.RecordMetricRequest{MetricType: models.MetricTypeLatency})
	require.Error(t, err)
	assert.Len(t, counters.samples, 2)
}

package alerting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

func TestPipeline_ViolationThroughRecovery(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repos.Policies.CreatePolicy(ctx, &models.AlertNotificationPolicy{
		Name:        "uptime pages",
		Channel:     models.ChannelSMS,
		Recipient:   strPtr("+2348000000001"),
		SeverityMin: models.SeverityWarning,
		Status:      models.AlertStatusOpen,
		IsActive:    true,
	}))

	log := testLogger()
	settings := NewSettingsResolver(config.AlertingConfig{}, f.repos.Settings, log)
	pipeline := NewPipeline(f.repos, settings, nil, log)

	sample := func(value float64, at time.Time) *models.Metric {
		return &models.Metric{
			DeviceID:   "device-1",
			MetricType: models.MetricTypeUptime,
			Value:      value,
			RecordedAt: at,
		}
	}
	base := time.Now().UTC().Add(-time.Hour)

	// Probe failure opens an alert and pages the on-call contact
	require.NoError(t, pipeline.Process(ctx, sample(0, base)))

	deviceID := "device-1"
	alert, err := f.repos.Alerts.GetActiveByKey(ctx, f.rule.ID, &deviceID, nil)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertStatusOpen, alert.Status)

	logs, err := f.repos.Notifications.ListLogsForAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	// A repeated failure refreshes the alert without paging again
	require.NoError(t, pipeline.Process(ctx, sample(0, base.Add(time.Minute))))

	logs, err = f.repos.Notifications.ListLogsForAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	// Recovery resolves the alert
	require.NoError(t, pipeline.Process(ctx, sample(1, base.Add(2*time.Minute))))

	resolved, err := f.repos.Alerts.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	active, err := f.repos.Alerts.GetActiveByKey(ctx, f.rule.ID, &deviceID, nil)
	require.NoError(t, err)
	assert.Nil(t, active)
}

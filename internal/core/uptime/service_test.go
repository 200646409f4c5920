package uptime

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

type fakeAlertRepo struct {
	alerts []*models.Alert
}

func (f *fakeAlertRepo) Create(ctx context.Context, alert *models.Alert) error { return nil }
func (f *fakeAlertRepo) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	return nil, apperrors.NewNotFound("alert", id)
}
func (f *fakeAlertRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Alert, error) {
	return nil, nil
}
func (f *fakeAlertRepo) GetActiveByKey(ctx context.Context, ruleID string, deviceID, interfaceID *string) (*models.Alert, error) {
	return nil, nil
}
func (f *fakeAlertRepo) UpdateMeasuredValue(ctx context.Context, id string, value float64) error {
	return nil
}
func (f *fakeAlertRepo) UpdateStatus(ctx context.Context, alert *models.Alert) error { return nil }
func (f *fakeAlertRepo) List(ctx context.Context, filter *models.AlertFilter) ([]*models.Alert, error) {
	return f.alerts, nil
}
func (f *fakeAlertRepo) AppendEvent(ctx context.Context, event *models.AlertEvent) error { return nil }
func (f *fakeAlertRepo) ListEvents(ctx context.Context, alertID string) ([]*models.AlertEvent, error) {
	return nil, nil
}
func (f *fakeAlertRepo) ListIntersecting(ctx context.Context, metricType string, start, end time.Time) ([]*models.Alert, error) {
	var out []*models.Alert
	for _, a := range f.alerts {
		if a.MetricType != metricType {
			continue
		}
		if !a.TriggeredAt.Before(end) {
			continue
		}
		if a.ResolvedAt != nil && !a.ResolvedAt.After(start) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeDeviceRepo struct {
	rows []*models.DeviceGroupRow
}

func (f *fakeDeviceRepo) Create(ctx context.Context, device *models.Device) error { return nil }
func (f *fakeDeviceRepo) GetByID(ctx context.Context, id string) (*models.Device, error) {
	return nil, apperrors.NewNotFound("device", id)
}
func (f *fakeDeviceRepo) List(ctx context.Context, includeInactive bool) ([]*models.Device, error) {
	return nil, nil
}
func (f *fakeDeviceRepo) Update(ctx context.Context, device *models.Device) error       { return nil }
func (f *fakeDeviceRepo) SetActive(ctx context.Context, id string, active bool) error   { return nil }
func (f *fakeDeviceRepo) CreatePopSite(ctx context.Context, site *models.PopSite) error { return nil }
func (f *fakeDeviceRepo) ListPopSites(ctx context.Context) ([]*models.PopSite, error) {
	return nil, nil
}
func (f *fakeDeviceRepo) CreateArea(ctx context.Context, area *models.Area) error { return nil }
func (f *fakeDeviceRepo) ListAreas(ctx context.Context) ([]*models.Area, error)   { return nil, nil }
func (f *fakeDeviceRepo) CreateFdh(ctx context.Context, fdh *models.Fdh) error    { return nil }
func (f *fakeDeviceRepo) ListFdhs(ctx context.Context) ([]*models.Fdh, error)     { return nil, nil }
func (f *fakeDeviceRepo) ListActiveWithGroups(ctx context.Context) ([]*models.DeviceGroupRow, error) {
	return f.rows, nil
}

func newTestService(alerts *fakeAlertRepo, devices *fakeDeviceRepo) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(&database.Repositories{Alerts: alerts, Devices: devices}, log)
}

func strPtr(v string) *string { return &v }

func downAlert(deviceID string, triggered time.Time, resolved *time.Time) *models.Alert {
	return &models.Alert{
		ID:          "alert-" + deviceID,
		RuleID:      "rule-1",
		DeviceID:    &deviceID,
		MetricType:  models.MetricTypeUptime,
		Status:      models.AlertStatusResolved,
		Severity:    models.SeverityCritical,
		TriggeredAt: triggered,
		ResolvedAt:  resolved,
	}
}

func TestService_Report_PerDevice(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	resolvedAt := start.Add(15 * time.Minute)
	alerts := &fakeAlertRepo{alerts: []*models.Alert{
		downAlert("device-1", start, &resolvedAt),
	}}
	devices := &fakeDeviceRepo{rows: []*models.DeviceGroupRow{
		{DeviceID: "device-1", DeviceName: "olt-1"},
		{DeviceID: "device-2", DeviceName: "olt-2"},
	}}

	report, err := newTestService(alerts, devices).Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   end,
		GroupBy:     models.GroupByDevice,
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)

	down := report.Items[0]
	assert.Equal(t, "olt-1", down.Name)
	assert.Equal(t, int64(3600), down.TotalSeconds)
	assert.Equal(t, int64(900), down.DowntimeSeconds)
	require.NotNil(t, down.UptimePercent)
	assert.Equal(t, 75.0, *down.UptimePercent)

	up := report.Items[1]
	assert.Equal(t, "olt-2", up.Name)
	assert.Equal(t, int64(0), up.DowntimeSeconds)
	require.NotNil(t, up.UptimePercent)
	assert.Equal(t, 100.0, *up.UptimePercent)
}

func TestService_Report_ClipsAndMergesOverlappingOutages(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	firstEnd := start.Add(20 * time.Minute)
	secondEnd := start.Add(30 * time.Minute)
	alerts := &fakeAlertRepo{alerts: []*models.Alert{
		// Started before the window, overlaps the second outage
		downAlert("device-1", start.Add(-time.Hour), &firstEnd),
		{
			ID:          "alert-overlap",
			RuleID:      "rule-2",
			DeviceID:    strPtr("device-1"),
			MetricType:  models.MetricTypeUptime,
			Status:      models.AlertStatusResolved,
			Severity:    models.SeverityCritical,
			TriggeredAt: start.Add(10 * time.Minute),
			ResolvedAt:  &secondEnd,
		},
	}}
	devices := &fakeDeviceRepo{rows: []*models.DeviceGroupRow{
		{DeviceID: "device-1", DeviceName: "olt-1"},
	}}

	report, err := newTestService(alerts, devices).Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   end,
		GroupBy:     models.GroupByDevice,
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	// Union of [0m, 20m] and [10m, 30m] clipped to the window is 30 minutes
	assert.Equal(t, int64(1800), report.Items[0].DowntimeSeconds)
	require.NotNil(t, report.Items[0].UptimePercent)
	assert.Equal(t, 50.0, *report.Items[0].UptimePercent)
}

func TestService_Report_UnresolvedOutageRunsToWindowEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	alerts := &fakeAlertRepo{alerts: []*models.Alert{{
		ID:          "alert-open",
		RuleID:      "rule-1",
		DeviceID:    strPtr("device-1"),
		MetricType:  models.MetricTypeUptime,
		Status:      models.AlertStatusOpen,
		Severity:    models.SeverityCritical,
		TriggeredAt: start.Add(45 * time.Minute),
	}}}
	devices := &fakeDeviceRepo{rows: []*models.DeviceGroupRow{
		{DeviceID: "device-1", DeviceName: "olt-1"},
	}}

	report, err := newTestService(alerts, devices).Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   end,
		GroupBy:     models.GroupByDevice,
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, int64(900), report.Items[0].DowntimeSeconds)
}

func TestService_Report_GroupsByPopSiteWithUnassignedBucket(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	resolvedAt := start.Add(30 * time.Minute)
	alerts := &fakeAlertRepo{alerts: []*models.Alert{
		downAlert("device-1", start, &resolvedAt),
	}}
	devices := &fakeDeviceRepo{rows: []*models.DeviceGroupRow{
		{DeviceID: "device-1", DeviceName: "olt-1", PopSiteID: strPtr("pop-1"), PopSiteName: strPtr("Lekki POP")},
		{DeviceID: "device-2", DeviceName: "olt-2", PopSiteID: strPtr("pop-1"), PopSiteName: strPtr("Lekki POP")},
		{DeviceID: "device-3", DeviceName: "olt-3"},
	}}

	report, err := newTestService(alerts, devices).Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   end,
		GroupBy:     models.GroupByPopSite,
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)

	pop := report.Items[0]
	assert.Equal(t, "Lekki POP", pop.Name)
	require.NotNil(t, pop.GroupID)
	assert.Equal(t, "pop-1", *pop.GroupID)
	assert.Equal(t, 2, pop.DeviceCount)
	// Downtime sums across the group before the percentage is taken
	assert.Equal(t, int64(7200), pop.TotalSeconds)
	assert.Equal(t, int64(1800), pop.DowntimeSeconds)
	require.NotNil(t, pop.UptimePercent)
	assert.Equal(t, 75.0, *pop.UptimePercent)

	unassigned := report.Items[1]
	assert.Nil(t, unassigned.GroupID)
	assert.Equal(t, "Unassigned", unassigned.Name)
	assert.Equal(t, 1, unassigned.DeviceCount)
	require.NotNil(t, unassigned.UptimePercent)
	assert.Equal(t, 100.0, *unassigned.UptimePercent)
}

func TestService_Report_Validation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	service := newTestService(&fakeAlertRepo{}, &fakeDeviceRepo{})

	_, err := service.Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   start,
		GroupBy:     models.GroupByDevice,
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.Report(context.Background(), &models.UptimeReportRequest{
		PeriodStart: start,
		PeriodEnd:   start.Add(time.Hour),
		GroupBy:     "postcode",
	})
	assert.Error(t, err)
}

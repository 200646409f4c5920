package uptime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Service builds availability reports from alert history. Downtime is the
// union of uptime-alert intervals clipped to the reporting window, merged
// per device so overlapping outages count once.
type Service struct {
	alerts  repositories.AlertRepository
	devices repositories.DeviceRepository
	log     *logrus.Logger
}

// NewService creates the uptime report service
func NewService(repos *database.Repositories, log *logrus.Logger) *Service {
	return &Service{alerts: repos.Alerts, devices: repos.Devices, log: log}
}

// Report computes availability per group over the reporting window
func (s *Service) Report(ctx context.Context, req *models.UptimeReportRequest) (*models.UptimeReport, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, apperrors.NewValidation("period_end must be after period_start")
	}
	groupBy, err := models.ParseUptimeGroupBy(string(req.GroupBy))
	if err != nil {
		return nil, err
	}

	devices, err := s.devices.ListActiveWithGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	downtime, err := s.downtimeByDevice(ctx, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	windowSeconds := int64(req.PeriodEnd.Sub(req.PeriodStart).Seconds())
	items := s.groupItems(devices, downtime, groupBy, windowSeconds)

	return &models.UptimeReport{
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		GroupBy:     groupBy,
		Items:       items,
	}, nil
}

// downtimeByDevice returns merged downtime seconds per device id
func (s *Service) downtimeByDevice(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	alerts, err := s.alerts.ListIntersecting(ctx, models.MetricTypeUptime, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list intersecting alerts: %w", err)
	}

	intervals := make(map[string][]interval)
	for _, alert := range alerts {
		if alert.DeviceID == nil {
			continue
		}

		from := alert.TriggeredAt
		if from.Before(start) {
			from = start
		}
		to := end
		if alert.ResolvedAt != nil && alert.ResolvedAt.Before(end) {
			to = *alert.ResolvedAt
		}
		if !to.After(from) {
			continue
		}

		intervals[*alert.DeviceID] = append(intervals[*alert.DeviceID], interval{start: from, end: to})
	}

	downtime := make(map[string]int64, len(intervals))
	for deviceID, ivs := range intervals {
		downtime[deviceID] = int64(math.Round(totalSeconds(mergeIntervals(ivs))))
	}

	return downtime, nil
}

type groupAccumulator struct {
	groupID         *string
	name            string
	deviceCount     int
	totalSeconds    int64
	downtimeSeconds int64
}

func (s *Service) groupItems(devices []*models.DeviceGroupRow, downtime map[string]int64, groupBy models.UptimeGroupBy, windowSeconds int64) []models.UptimeReportItem {
	groups := make(map[string]*groupAccumulator)
	order := make([]string, 0, len(devices))

	for _, device := range devices {
		key, groupID, name := groupKey(device, groupBy)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAccumulator{groupID: groupID, name: name}
			groups[key] = acc
			order = append(order, key)
		}
		acc.deviceCount++
		acc.totalSeconds += windowSeconds
		acc.downtimeSeconds += downtime[device.DeviceID]
	}

	items := make([]models.UptimeReportItem, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		item := models.UptimeReportItem{
			GroupID:         acc.groupID,
			Name:            acc.name,
			DeviceCount:     acc.deviceCount,
			TotalSeconds:    acc.totalSeconds,
			DowntimeSeconds: acc.downtimeSeconds,
		}
		if acc.totalSeconds > 0 {
			percent := roundHalfUp(100 * float64(acc.totalSeconds-acc.downtimeSeconds) / float64(acc.totalSeconds))
			item.UptimePercent = &percent
		}
		items = append(items, item)
	}

	return items
}

// groupKey returns the map key, group id, and display name for a device
// under the chosen grouping. Devices without the grouping dimension land in
// an unassigned bucket with a nil group id.
func groupKey(device *models.DeviceGroupRow, groupBy models.UptimeGroupBy) (string, *string, string) {
	var id, name *string
	switch groupBy {
	case models.GroupByPopSite:
		id, name = device.PopSiteID, device.PopSiteName
	case models.GroupByArea:
		id, name = device.AreaID, device.AreaName
	case models.GroupByFdh:
		id, name = device.FdhID, device.FdhName
	default:
		deviceID := device.DeviceID
		return deviceID, &deviceID, device.DeviceName
	}

	if id == nil {
		return "", nil, "Unassigned"
	}
	display := *id
	if name != nil {
		display = *name
	}
	return *id, id, display
}

package models

import "time"

// UptimeReportRequest is the availability report query
type UptimeReportRequest struct {
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	GroupBy     UptimeGroupBy `json:"group_by"`
}

// UptimeReportItem is one row of the availability report. UptimePercent is
// nil when the group has no observable seconds in the window.
type UptimeReportItem struct {
	GroupID         *string  `json:"group_id,omitempty"`
	Name            string   `json:"name"`
	DeviceCount     int      `json:"device_count"`
	TotalSeconds    int64    `json:"total_seconds"`
	DowntimeSeconds int64    `json:"downtime_seconds"`
	UptimePercent   *float64 `json:"uptime_percent"`
}

// UptimeReport is the availability report envelope
type UptimeReport struct {
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	GroupBy     UptimeGroupBy      `json:"group_by"`
	Items       []UptimeReportItem `json:"items"`
}

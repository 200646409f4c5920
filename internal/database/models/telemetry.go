package models

import "time"

// Well-known metric types. MetricTypeUptime samples drive the availability
// report: alerts raised on uptime rules count as downtime intervals.
const (
	MetricTypeUptime      = "uptime"
	MetricTypeLatency     = "latency"
	MetricTypePacketLoss  = "packet_loss"
	MetricTypeBandwidth   = "bandwidth"
	MetricTypeSignalLevel = "signal_level"
)

// Metric is one immutable timestamped observation for a device/interface
type Metric struct {
	ID          string    `json:"id" db:"id"`
	DeviceID    string    `json:"device_id" db:"device_id"`
	InterfaceID *string   `json:"interface_id,omitempty" db:"interface_id"`
	MetricType  string    `json:"metric_type" db:"metric_type"`
	Value       float64   `json:"value" db:"value"`
	RecordedAt  time.Time `json:"recorded_at" db:"recorded_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// MetricFilter narrows metric listings
type MetricFilter struct {
	DeviceID     *string    `json:"device_id"`
	InterfaceID  *string    `json:"interface_id"`
	MetricType   *string    `json:"metric_type"`
	RecordedFrom *time.Time `json:"recorded_from"`
	RecordedTo   *time.Time `json:"recorded_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
}

// RecordMetricRequest is the ingest surface payload
type RecordMetricRequest struct {
	DeviceID    string    `json:"device_id" binding:"required"`
	InterfaceID *string   `json:"interface_id"`
	MetricType  string    `json:"metric_type" binding:"required"`
	Value       float64   `json:"value"`
	RecordedAt  time.Time `json:"recorded_at"`
}

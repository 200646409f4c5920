package models

import (
	"github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Severity classifies rules and alerts. Ordering matters: policies gate on
// rank, not on the literal value.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityCritical: 2,
}

// Rank returns the numeric severity rank (info=0 < warning=1 < critical=2)
func (s Severity) Rank() int {
	return severityRanks[s]
}

// ParseSeverity validates and converts a severity string
func ParseSeverity(v string) (Severity, error) {
	s := Severity(v)
	if _, ok := severityRanks[s]; !ok {
		return "", errors.NewInvalidEnum("severity", v)
	}
	return s, nil
}

// Operator is a threshold comparison operator on rule conditions
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorGTE Operator = ">="
	OperatorLT  Operator = "<"
	OperatorLTE Operator = "<="
	OperatorEQ  Operator = "=="
)

// Compare applies the operator to a measured value and a rule threshold
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case OperatorGT:
		return value > threshold
	case OperatorGTE:
		return value >= threshold
	case OperatorLT:
		return value < threshold
	case OperatorLTE:
		return value <= threshold
	case OperatorEQ:
		return value == threshold
	}
	return false
}

// ParseOperator validates and converts an operator string
func ParseOperator(v string) (Operator, error) {
	switch Operator(v) {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE, OperatorEQ:
		return Operator(v), nil
	}
	return "", errors.NewInvalidEnum("operator", v)
}

// AlertStatus is the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "open"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// ParseAlertStatus validates and converts an alert status string
func ParseAlertStatus(v string) (AlertStatus, error) {
	switch AlertStatus(v) {
	case AlertStatusOpen, AlertStatusAcknowledged, AlertStatusResolved:
		return AlertStatus(v), nil
	}
	return "", errors.NewInvalidEnum("status", v)
}

// IsActive reports whether the status counts against the dedup key
// (open and acknowledged alerts block creation of a new alert for the key)
func (s AlertStatus) IsActive() bool {
	return s == AlertStatusOpen || s == AlertStatusAcknowledged
}

// NotificationChannel is a delivery channel for escalation notifications
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
	ChannelPush     NotificationChannel = "push"
	ChannelWebhook  NotificationChannel = "webhook"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

// ParseChannel validates and converts a channel string
func ParseChannel(v string) (NotificationChannel, error) {
	switch NotificationChannel(v) {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelWebhook, ChannelWhatsApp:
		return NotificationChannel(v), nil
	}
	return "", errors.NewInvalidEnum("channel", v)
}

// NotificationStatus tracks a notification through the delivery collaborator
type NotificationStatus string

const (
	NotificationQueued    NotificationStatus = "queued"
	NotificationSending   NotificationStatus = "sending"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationFailed    NotificationStatus = "failed"
)

// ParseNotificationStatus validates and converts a notification status string
func ParseNotificationStatus(v string) (NotificationStatus, error) {
	switch NotificationStatus(v) {
	case NotificationQueued, NotificationSending, NotificationDelivered, NotificationFailed:
		return NotificationStatus(v), nil
	}
	return "", errors.NewInvalidEnum("notification_status", v)
}

// UptimeGroupBy selects the grouping dimension of an uptime report
type UptimeGroupBy string

const (
	GroupByDevice  UptimeGroupBy = "device"
	GroupByPopSite UptimeGroupBy = "pop_site"
	GroupByArea    UptimeGroupBy = "area"
	GroupByFdh     UptimeGroupBy = "fdh"
)

// ParseUptimeGroupBy validates and converts a group_by string
func ParseUptimeGroupBy(v string) (UptimeGroupBy, error) {
	switch UptimeGroupBy(v) {
	case GroupByDevice, GroupByPopSite, GroupByArea, GroupByFdh:
		return UptimeGroupBy(v), nil
	}
	return "", errors.NewInvalidEnum("group_by", v)
}

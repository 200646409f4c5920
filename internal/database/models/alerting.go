package models

import (
	"time"
)

// AlertRule is a threshold condition over a metric type, optionally scoped to
// a device/interface and optionally requiring sustained violation over a
// duration window. Rules are soft-deactivated, never hard-deleted.
type AlertRule struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	MetricType      string    `json:"metric_type" db:"metric_type"`
	Operator        Operator  `json:"operator" db:"operator"`
	Threshold       float64   `json:"threshold" db:"threshold"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"` // 0 = instant
	Severity        Severity  `json:"severity" db:"severity"`
	DeviceID        *string   `json:"device_id,omitempty" db:"device_id"`
	InterfaceID     *string   `json:"interface_id,omitempty" db:"interface_id"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Windowed reports whether the rule requires sustained violation
func (r *AlertRule) Windowed() bool {
	return r.DurationSeconds > 0
}

// Alert is a stateful record of an ongoing or past rule violation. At most
// one alert per (rule_id, device_id, interface_id) may be open or
// acknowledged at any time; the schema enforces this with a partial unique
// index. Alerts are never deleted.
type Alert struct {
	ID             string      `json:"id" db:"id"`
	RuleID         string      `json:"rule_id" db:"rule_id"`
	DeviceID       *string     `json:"device_id,omitempty" db:"device_id"`
	InterfaceID    *string     `json:"interface_id,omitempty" db:"interface_id"`
	MetricType     string      `json:"metric_type" db:"metric_type"`
	MeasuredValue  float64     `json:"measured_value" db:"measured_value"`
	Status         AlertStatus `json:"status" db:"status"`
	Severity       Severity    `json:"severity" db:"severity"`
	TriggeredAt    time.Time   `json:"triggered_at" db:"triggered_at"`
	AcknowledgedAt *time.Time  `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty" db:"resolved_at"`
}

// AlertEvent is one append-only audit row per alert state transition
type AlertEvent struct {
	ID        string      `json:"id" db:"id"`
	AlertID   string      `json:"alert_id" db:"alert_id"`
	Status    AlertStatus `json:"status" db:"status"`
	Message   string      `json:"message" db:"message"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// AlertNotificationPolicy matches alerts on transition and decides who gets
// notified. Nil scoping fields match any alert; severity_min gates by rank.
type AlertNotificationPolicy struct {
	ID          string              `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Channel     NotificationChannel `json:"channel" db:"channel"`
	Recipient   *string             `json:"recipient,omitempty" db:"recipient"`
	TemplateID  *string             `json:"template_id,omitempty" db:"template_id"`
	RuleID      *string             `json:"rule_id,omitempty" db:"rule_id"`
	DeviceID    *string             `json:"device_id,omitempty" db:"device_id"`
	InterfaceID *string             `json:"interface_id,omitempty" db:"interface_id"`
	SeverityMin Severity            `json:"severity_min" db:"severity_min"`
	Status      AlertStatus         `json:"status" db:"status"` // transition it reacts to: open or resolved
	IsActive    bool                `json:"is_active" db:"is_active"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// Matches reports whether the policy applies to the given alert
func (p *AlertNotificationPolicy) Matches(alert *Alert) bool {
	if p.RuleID != nil && *p.RuleID != alert.RuleID {
		return false
	}
	if p.DeviceID != nil && (alert.DeviceID == nil || *p.DeviceID != *alert.DeviceID) {
		return false
	}
	if p.InterfaceID != nil && (alert.InterfaceID == nil || *p.InterfaceID != *alert.InterfaceID) {
		return false
	}
	return alert.Severity.Rank() >= p.SeverityMin.Rank()
}

// AlertNotificationPolicyStep is one ordered escalation step under a policy.
// A policy with no active steps gets a single synthesized default step.
type AlertNotificationPolicyStep struct {
	ID           string              `json:"id" db:"id"`
	PolicyID     string              `json:"policy_id" db:"policy_id"`
	StepIndex    int                 `json:"step_index" db:"step_index"`
	DelayMinutes int                 `json:"delay_minutes" db:"delay_minutes"`
	Channel      NotificationChannel `json:"channel" db:"channel"`
	Recipient    *string             `json:"recipient,omitempty" db:"recipient"`
	TemplateID   *string             `json:"template_id,omitempty" db:"template_id"`
	RotationID   *string             `json:"rotation_id,omitempty" db:"rotation_id"`
	SeverityMin  Severity            `json:"severity_min" db:"severity_min"`
	Status       AlertStatus         `json:"status" db:"status"`
	IsActive     bool                `json:"is_active" db:"is_active"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// OnCallRotation is an ordered pool of contacts selected round-robin
type OnCallRotation struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OnCallRotationMember is one contact in a rotation. Selection order is
// lowest priority first, then least-recently-used (nulls first).
type OnCallRotationMember struct {
	ID         string     `json:"id" db:"id"`
	RotationID string     `json:"rotation_id" db:"rotation_id"`
	Name       string     `json:"name" db:"name"`
	Contact    string     `json:"contact" db:"contact"`
	Priority   int        `json:"priority" db:"priority"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// NotificationTemplate holds a canned subject/body for a channel. When a step
// carries a template it overrides the inline fallback verbatim.
type NotificationTemplate struct {
	ID        string              `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	Channel   NotificationChannel `json:"channel" db:"channel"`
	Subject   *string             `json:"subject,omitempty" db:"subject"`
	Body      string              `json:"body" db:"body"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// Notification is the record handed to the delivery collaborator. The
// dispatcher enqueues it and never waits for the outcome.
type Notification struct {
	ID        string              `json:"id" db:"id"`
	Channel   NotificationChannel `json:"channel" db:"channel"`
	Recipient string              `json:"recipient" db:"recipient"`
	Subject   string              `json:"subject" db:"subject"`
	Body      string              `json:"body" db:"body"`
	Status    NotificationStatus  `json:"status" db:"status"`
	SendAt    *time.Time          `json:"send_at,omitempty" db:"send_at"` // nil = immediate
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// NotificationDelivery records the delivery worker's provider response
type NotificationDelivery struct {
	ID                string             `json:"id" db:"id"`
	NotificationID    string             `json:"notification_id" db:"notification_id"`
	Status            NotificationStatus `json:"status" db:"status"` // delivered or failed
	ProviderMessageID *string            `json:"provider_message_id,omitempty" db:"provider_message_id"`
	ProviderResponse  *string            `json:"provider_response,omitempty" db:"provider_response"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
}

// AlertNotificationLog links an emitted notification back to the alert and
// policy that caused it, for traceability
type AlertNotificationLog struct {
	ID             string    `json:"id" db:"id"`
	AlertID        string    `json:"alert_id" db:"alert_id"`
	PolicyID       string    `json:"policy_id" db:"policy_id"`
	NotificationID string    `json:"notification_id" db:"notification_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Setting is one stored configuration row. Config/env overrides take
// precedence over stored values.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Stored setting keys recognized by the escalation dispatcher
const (
	SettingNotificationsEnabled = "alert_notifications_enabled"
	SettingDefaultChannel       = "default_channel"
	SettingDefaultRecipient     = "default_recipient"
	SettingDefaultTemplateID    = "default_template_id"
	SettingDefaultRotationID    = "default_rotation_id"
	SettingDefaultDelayMinutes  = "default_delay_minutes"
)

// AlertFilter narrows alert listings
type AlertFilter struct {
	RuleID      *string      `json:"rule_id"`
	DeviceID    *string      `json:"device_id"`
	InterfaceID *string      `json:"interface_id"`
	Status      *AlertStatus `json:"status"`
	Severity    *Severity    `json:"severity"`
	OrderBy     string       `json:"order_by"`  // triggered_at, severity, status
	OrderDir    string       `json:"order_dir"` // asc, desc
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}

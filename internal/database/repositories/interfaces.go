package repositories

import (
	"context"
	"time"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

// MetricRepository defines metric sample data access methods
type MetricRepository interface {
	Create(ctx context.Context, metric *models.Metric) error
	List(ctx context.Context, filter *models.MetricFilter) ([]*models.Metric, error)
	// ListWindow returns all samples for the device/interface/metric type
	// recorded in [from, to], oldest first
	ListWindow(ctx context.Context, deviceID string, interfaceID *string, metricType string, from, to time.Time) ([]*models.Metric, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RuleRepository defines alert rule data access methods
type RuleRepository interface {
	Create(ctx context.Context, rule *models.AlertRule) error
	GetByID(ctx context.Context, id string) (*models.AlertRule, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.AlertRule, error)
	List(ctx context.Context, includeInactive bool) ([]*models.AlertRule, error)
	Update(ctx context.Context, rule *models.AlertRule) error
	SetActive(ctx context.Context, ids []string, active bool) (int64, error)
	// GetMatching returns active rules for the metric type whose scoping
	// fields, when set, equal the sample's device/interface
	GetMatching(ctx context.Context, metricType string, deviceID string, interfaceID *string) ([]*models.AlertRule, error)
}

// AlertRepository defines alert and audit event data access methods
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Alert, error)
	// GetActiveByKey returns the open or acknowledged alert for the dedup
	// key, or nil when none exists
	GetActiveByKey(ctx context.Context, ruleID string, deviceID, interfaceID *string) (*models.Alert, error)
	UpdateMeasuredValue(ctx context.Context, id string, value float64) error
	UpdateStatus(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, filter *models.AlertFilter) ([]*models.Alert, error)
	AppendEvent(ctx context.Context, event *models.AlertEvent) error
	ListEvents(ctx context.Context, alertID string) ([]*models.AlertEvent, error)
	// ListIntersecting returns alerts for the metric type whose
	// [triggered_at, resolved_at] interval intersects [start, end]
	ListIntersecting(ctx context.Context, metricType string, start, end time.Time) ([]*models.Alert, error)
}

// PolicyRepository defines escalation policy and step data access methods
type PolicyRepository interface {
	CreatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error
	GetPolicy(ctx context.Context, id string) (*models.AlertNotificationPolicy, error)
	ListPolicies(ctx context.Context, includeInactive bool) ([]*models.AlertNotificationPolicy, error)
	UpdatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error
	ListActiveByStatus(ctx context.Context, status models.AlertStatus) ([]*models.AlertNotificationPolicy, error)

	CreateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error
	GetStep(ctx context.Context, id string) (*models.AlertNotificationPolicyStep, error)
	ListSteps(ctx context.Context, policyID string, includeInactive bool) ([]*models.AlertNotificationPolicyStep, error)
	UpdateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error
	// ListActiveSteps returns the active steps reacting to the given
	// transition status, ordered by step_index ascending
	ListActiveSteps(ctx context.Context, policyID string, status models.AlertStatus) ([]*models.AlertNotificationPolicyStep, error)
}

// RotationRepository defines on-call rotation data access methods
type RotationRepository interface {
	CreateRotation(ctx context.Context, rotation *models.OnCallRotation) error
	GetRotation(ctx context.Context, id string) (*models.OnCallRotation, error)
	ListRotations(ctx context.Context) ([]*models.OnCallRotation, error)
	UpdateRotation(ctx context.Context, rotation *models.OnCallRotation) error

	CreateMember(ctx context.Context, member *models.OnCallRotationMember) error
	GetMember(ctx context.Context, id string) (*models.OnCallRotationMember, error)
	ListMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error)
	UpdateMember(ctx context.Context, member *models.OnCallRotationMember) error
	// ListActiveMembers returns active members ordered by priority
	// ascending, then last_used_at ascending with nulls first
	ListActiveMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error)
	MarkUsed(ctx context.Context, memberID string, usedAt time.Time) error
}

// TemplateRepository defines notification template data access methods
type TemplateRepository interface {
	Create(ctx context.Context, template *models.NotificationTemplate) error
	GetByID(ctx context.Context, id string) (*models.NotificationTemplate, error)
	List(ctx context.Context) ([]*models.NotificationTemplate, error)
	Update(ctx context.Context, template *models.NotificationTemplate) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines queued notification data access methods
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateLog(ctx context.Context, log *models.AlertNotificationLog) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	List(ctx context.Context, status *models.NotificationStatus, limit, offset int) ([]*models.Notification, error)
	ListLogsForAlert(ctx context.Context, alertID string) ([]*models.AlertNotificationLog, error)
	// ClaimDue transitions queued notifications whose send_at has passed
	// (or is null) to sending and returns them
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error)
	// RecordDelivery stores the delivery worker's outcome and moves the
	// notification to its terminal status
	RecordDelivery(ctx context.Context, delivery *models.NotificationDelivery) error
}

// DeviceRepository defines device inventory data access methods
type DeviceRepository interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id string) (*models.Device, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	SetActive(ctx context.Context, id string, active bool) error
	// ListActiveWithGroups returns active devices joined with their
	// grouping dimension names for the uptime report
	ListActiveWithGroups(ctx context.Context) ([]*models.DeviceGroupRow, error)

	CreatePopSite(ctx context.Context, site *models.PopSite) error
	ListPopSites(ctx context.Context) ([]*models.PopSite, error)
	CreateArea(ctx context.Context, area *models.Area) error
	ListAreas(ctx context.Context) ([]*models.Area, error)
	CreateFdh(ctx context.Context, fdh *models.Fdh) error
	ListFdhs(ctx context.Context) ([]*models.Fdh, error)
}

// SettingRepository defines stored setting data access methods
type SettingRepository interface {
	// Get returns nil when the key has no stored value
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]*models.Setting, error)
}

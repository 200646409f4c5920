package alerting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// In-memory repository fakes shared by the package tests.

type fakeRuleRepo struct {
	rules []*models.AlertRule
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *models.AlertRule) error {
	f.rules = append(f.rules, rule)
	return nil
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (*models.AlertRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NewNotFound("alert rule", id)
}

func (f *fakeRuleRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.AlertRule, error) {
	var out []*models.AlertRule
	for _, id := range ids {
		for _, r := range f.rules {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) List(ctx context.Context, includeInactive bool) ([]*models.AlertRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule *models.AlertRule) error { return nil }

func (f *fakeRuleRepo) SetActive(ctx context.Context, ids []string, active bool) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeRuleRepo) GetMatching(ctx context.Context, metricType string, deviceID string, interfaceID *string) ([]*models.AlertRule, error) {
	var out []*models.AlertRule
	for _, r := range f.rules {
		if !r.IsActive || r.MetricType != metricType {
			continue
		}
		if r.DeviceID != nil && *r.DeviceID != deviceID {
			continue
		}
		if r.InterfaceID != nil && (interfaceID == nil || *r.InterfaceID != *interfaceID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeMetricRepo struct {
	samples []*models.Metric
}

func (f *fakeMetricRepo) Create(ctx context.Context, metric *models.Metric) error {
	f.samples = append(f.samples, metric)
	return nil
}

func (f *fakeMetricRepo) List(ctx context.Context, filter *models.MetricFilter) ([]*models.Metric, error) {
	return f.samples, nil
}

func (f *fakeMetricRepo) ListWindow(ctx context.Context, deviceID string, interfaceID *string, metricType string, from, to time.Time) ([]*models.Metric, error) {
	var out []*models.Metric
	for _, m := range f.samples {
		if m.DeviceID != deviceID || m.MetricType != metricType {
			continue
		}
		if m.RecordedAt.Before(from) || m.RecordedAt.After(to) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (f *fakeMetricRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeAlertRepo struct {
	alerts []*models.Alert
	events []*models.AlertEvent
	nextID int
}

func (f *fakeAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		f.nextID++
		alert.ID = fmt.Sprintf("alert-%d", f.nextID)
	}
	copied := *alert
	f.alerts = append(f.alerts, &copied)
	return nil
}

func (f *fakeAlertRepo) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	for _, a := range f.alerts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("alert", id)
}

func (f *fakeAlertRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Alert, error) {
	var out []*models.Alert
	for _, id := range ids {
		for _, a := range f.alerts {
			if a.ID == id {
				copied := *a
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) GetActiveByKey(ctx context.Context, ruleID string, deviceID, interfaceID *string) (*models.Alert, error) {
	for _, a := range f.alerts {
		if a.RuleID != ruleID || !a.Status.IsActive() {
			continue
		}
		if !ptrEqual(a.DeviceID, deviceID) || !ptrEqual(a.InterfaceID, interfaceID) {
			continue
		}
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAlertRepo) UpdateMeasuredValue(ctx context.Context, id string, value float64) error {
	for _, a := range f.alerts {
		if a.ID == id {
			a.MeasuredValue = value
			return nil
		}
	}
	return apperrors.NewNotFound("alert", id)
}

func (f *fakeAlertRepo) UpdateStatus(ctx context.Context, alert *models.Alert) error {
	for i, a := range f.alerts {
		if a.ID == alert.ID {
			copied := *alert
			f.alerts[i] = &copied
			return nil
		}
	}
	return apperrors.NewNotFound("alert", alert.ID)
}

func (f *fakeAlertRepo) List(ctx context.Context, filter *models.AlertFilter) ([]*models.Alert, error) {
	return f.alerts, nil
}

func (f *fakeAlertRepo) AppendEvent(ctx context.Context, event *models.AlertEvent) error {
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", len(f.events)+1)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAlertRepo) ListEvents(ctx context.Context, alertID string) ([]*models.AlertEvent, error) {
	var out []*models.AlertEvent
	for _, e := range f.events {
		if e.AlertID == alertID {
			out = append(out, e)
		}
	}
	return out, nil
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

type fakePolicyRepo struct {
	policies []*models.AlertNotificationPolicy
	steps    []*models.AlertNotificationPolicyStep
}

func (f *fakePolicyRepo) CreatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	f.policies = append(f.policies, policy)
	return nil
}

func (f *fakePolicyRepo) GetPolicy(ctx context.Context, id string) (*models.AlertNotificationPolicy, error) {
	for _, p := range f.policies {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFound("notification policy", id)
}

func (f *fakePolicyRepo) ListPolicies(ctx context.Context, includeInactive bool) ([]*models.AlertNotificationPolicy, error) {
	return f.policies, nil
}

func (f *fakePolicyRepo) UpdatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	return nil
}

func (f *fakePolicyRepo) ListActiveByStatus(ctx context.Context, status models.AlertStatus) ([]*models.AlertNotificationPolicy, error) {
	var out []*models.AlertNotificationPolicy
	for _, p := range f.policies {
		if p.IsActive && p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePolicyRepo) CreateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakePolicyRepo) GetStep(ctx context.Context, id string) (*models.AlertNotificationPolicyStep, error) {
	for _, s := range f.steps {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFound("policy step", id)
}

func (f *fakePolicyRepo) ListSteps(ctx context.Context, policyID string, includeInactive bool) ([]*models.AlertNotificationPolicyStep, error) {
	return f.steps, nil
}

func (f *fakePolicyRepo) UpdateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	return nil
}

func (f *fakePolicyRepo) ListActiveSteps(ctx context.Context, policyID string, status models.AlertStatus) ([]*models.AlertNotificationPolicyStep, error) {
	var out []*models.AlertNotificationPolicyStep
	for _, s := range f.steps {
		if s.IsActive && s.PolicyID == policyID && s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepIndex < out[j].StepIndex })
	return out, nil
}

type fakeRotationRepo struct {
	members []*models.OnCallRotationMember
	used    []string
}

func (f *fakeRotationRepo) CreateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	return nil
}

func (f *fakeRotationRepo) GetRotation(ctx context.Context, id string) (*models.OnCallRotation, error) {
	return nil, apperrors.NewNotFound("rotation", id)
}

func (f *fakeRotationRepo) ListRotations(ctx context.Context) ([]*models.OnCallRotation, error) {
	return nil, nil
}

func (f *fakeRotationRepo) UpdateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	return nil
}

func (f *fakeRotationRepo) CreateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	f.members = append(f.members, member)
	return nil
}

func (f *fakeRotationRepo) GetMember(ctx context.Context, id string) (*models.OnCallRotationMember, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperrors.NewNotFound("rotation member", id)
}

func (f *fakeRotationRepo) ListMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error) {
	return f.members, nil
}

func (f *fakeRotationRepo) UpdateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	return nil
}

func (f *fakeRotationRepo) ListActiveMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error) {
	var out []*models.OnCallRotationMember
	for _, m := range f.members {
		if m.IsActive && m.RotationID == rotationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastUsedAt == nil || out[j].LastUsedAt == nil {
			if (out[i].LastUsedAt == nil) != (out[j].LastUsedAt == nil) {
				return out[i].LastUsedAt == nil
			}
		} else if !out[i].LastUsedAt.Equal(*out[j].LastUsedAt) {
			return out[i].LastUsedAt.Before(*out[j].LastUsedAt)
		}
		return out[i].Priority < out[j].Priority
	})
	return out, nil
}

func (f *fakeRotationRepo) MarkUsed(ctx context.Context, memberID string, usedAt time.Time) error {
	for _, m := range f.members {
		if m.ID == memberID {
			at := usedAt
			m.LastUsedAt = &at
			f.used = append(f.used, memberID)
			return nil
		}
	}
	return apperrors.NewNotFound("rotation member", memberID)
}

type fakeTemplateRepo struct {
	templates map[string]*models.NotificationTemplate
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *models.NotificationTemplate) error {
	if f.templates == nil {
		f.templates = make(map[string]*models.NotificationTemplate)
	}
	f.templates[template.ID] = template
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.NotificationTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return nil, apperrors.NewNotFound("notification template", id)
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]*models.NotificationTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, template *models.NotificationTemplate) error {
	return nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeNotificationRepo struct {
	notifications []*models.Notification
	logs          []*models.AlertNotificationLog
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = fmt.Sprintf("notification-%d", len(f.notifications)+1)
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) CreateLog(ctx context.Context, log *models.AlertNotificationLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperrors.NewNotFound("notification", id)
}

func (f *fakeNotificationRepo) List(ctx context.Context, status *models.NotificationStatus, limit, offset int) ([]*models.Notification, error) {
	return f.notifications, nil
}

func (f *fakeNotificationRepo) ListLogsForAlert(ctx context.Context, alertID string) ([]*models.AlertNotificationLog, error) {
	var out []*models.AlertNotificationLog
	for _, l := range f.logs {
		if l.AlertID == alertID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if len(out) == limit {
			break
		}
		if n.Status != models.NotificationQueued {
			continue
		}
		if n.SendAt != nil && n.SendAt.After(now) {
			continue
		}
		n.Status = models.NotificationSending
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) RecordDelivery(ctx context.Context, delivery *models.NotificationDelivery) error {
	for _, n := range f.notifications {
		if n.ID == delivery.NotificationID {
			n.Status = delivery.Status
			return nil
		}
	}
	return apperrors.NewNotFound("notification", delivery.NotificationID)
}

type fakeSettingRepo struct {
	rows []*models.Setting
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	for _, row := range f.rows {
		if row.Key == key {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	for _, row := range f.rows {
		if row.Key == key {
			row.Value = value
			return nil
		}
	}
	f.rows = append(f.rows, &models.Setting{Key: key, Value: value})
	return nil
}

func (f *fakeSettingRepo) GetAll(ctx context.Context) ([]*models.Setting, error) {
	return f.rows, nil
}

type fakeCounters struct {
	samples []string
	queued  []string
}

func (f *fakeCounters) RecordSample(metricType string) {
	f.samples = append(f.samples, metricType)
}

func (f *fakeCounters) RecordNotificationQueued(channel string) {
	f.queued = append(f.queued, channel)
}

type recordingSink struct {
	transitions []models.AlertStatus
}

func (s *recordingSink) HandleAlertTransition(ctx context.Context, alert *models.Alert, status models.AlertStatus) error {
	s.transitions = append(s.transitions, status)
	return nil
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtr(v string) *string { return &v }

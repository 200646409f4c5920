package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// AlertEventSink receives alert state transitions. The escalation dispatcher
// implements it; so do the websocket broadcaster and the metrics collector.
type AlertEventSink interface {
	HandleAlertTransition(ctx context.Context, alert *models.Alert, status models.AlertStatus) error
}

// Lifecycle owns the alert state machine per (rule, device, interface) key:
// open, optionally acknowledged, then resolved. Resolved is terminal; a new
// violation after resolution opens a new alert row.
type Lifecycle struct {
	alerts repositories.AlertRepository
	sinks  []AlertEventSink
	log    *logrus.Logger
}

// NewLifecycle creates an alert lifecycle publishing transitions to the
// given sinks
func NewLifecycle(alerts repositories.AlertRepository, log *logrus.Logger, sinks ...AlertEventSink) *Lifecycle {
	return &Lifecycle{alerts: alerts, sinks: sinks, log: log}
}

// Apply advances the state machine for one rule verdict. A violation with an
// active alert only refreshes measured_value so a sustained outage cannot
// storm the notification queue.
func (l *Lifecycle) Apply(ctx context.Context, rule *models.AlertRule, sample *models.Metric, violated bool) error {
	deviceID := sample.DeviceID
	existing, err := l.alerts.GetActiveByKey(ctx, rule.ID, &deviceID, sample.InterfaceID)
	if err != nil {
		return fmt.Errorf("failed to look up active alert: %w", err)
	}

	if violated {
		if existing != nil {
			return l.alerts.UpdateMeasuredValue(ctx, existing.ID, sample.Value)
		}
		return l.open(ctx, rule, sample)
	}

	if existing == nil {
		return nil
	}
	return l.resolve(ctx, existing, sample)
}

func (l *Lifecycle) open(ctx context.Context, rule *models.AlertRule, sample *models.Metric) error {
	deviceID := sample.DeviceID
	alert := &models.Alert{
		RuleID:        rule.ID,
		DeviceID:      &deviceID,
		InterfaceID:   sample.InterfaceID,
		MetricType:    sample.MetricType,
		MeasuredValue: sample.Value,
		Status:        models.AlertStatusOpen,
		Severity:      rule.Severity,
		TriggeredAt:   sample.RecordedAt,
	}
	if err := l.alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	message := fmt.Sprintf("rule %q violated: measured %g against threshold %s %g",
		rule.Name, sample.Value, rule.Operator, rule.Threshold)
	if err := l.appendEvent(ctx, alert.ID, models.AlertStatusOpen, message); err != nil {
		return err
	}

	l.log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"rule_id":  rule.ID,
		"severity": alert.Severity,
	}).Info("Alert opened")

	return l.notify(ctx, alert, models.AlertStatusOpen)
}

func (l *Lifecycle) resolve(ctx context.Context, alert *models.Alert, sample *models.Metric) error {
	now := time.Now().UTC()
	alert.Status = models.AlertStatusResolved
	alert.ResolvedAt = &now
	alert.MeasuredValue = sample.Value
	if err := l.alerts.UpdateStatus(ctx, alert); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	message := fmt.Sprintf("metric recovered: measured %g", sample.Value)
	if err := l.appendEvent(ctx, alert.ID, models.AlertStatusResolved, message); err != nil {
		return err
	}

	l.log.WithField("alert_id", alert.ID).Info("Alert resolved")

	return l.notify(ctx, alert, models.AlertStatusResolved)
}

// Transition applies an operator-initiated acknowledge or resolve. Repeating
// a transition on an already-resolved alert is permitted and overwrites the
// corresponding timestamp.
func (l *Lifecycle) Transition(ctx context.Context, id string, target models.AlertStatus, message *string) (*models.Alert, error) {
	alert, err := l.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	alert.Status = target
	switch target {
	case models.AlertStatusAcknowledged:
		alert.AcknowledgedAt = &now
	case models.AlertStatusResolved:
		alert.ResolvedAt = &now
	}
	if err := l.alerts.UpdateStatus(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to update alert status: %w", err)
	}

	eventMessage := fmt.Sprintf("alert %s by operator", target)
	if message != nil && *message != "" {
		eventMessage = *message
	}
	if err := l.appendEvent(ctx, alert.ID, target, eventMessage); err != nil {
		return nil, err
	}

	if err := l.notify(ctx, alert, target); err != nil {
		return nil, err
	}

	return alert, nil
}

func (l *Lifecycle) appendEvent(ctx context.Context, alertID string, status models.AlertStatus, message string) error {
	event := &models.AlertEvent{
		AlertID: alertID,
		Status:  status,
		Message: message,
	}
	if err := l.alerts.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to append alert event: %w", err)
	}
	return nil
}

func (l *Lifecycle) notify(ctx context.Context, alert *models.Alert, status models.AlertStatus) error {
	for _, sink := range l.sinks {
		if err := sink.HandleAlertTransition(ctx, alert, status); err != nil {
			return fmt.Errorf("alert sink failed: %w", err)
		}
	}
	return nil
}

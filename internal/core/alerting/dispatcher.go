package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Dispatcher walks the matching escalation policies on an alert transition
// and enqueues one notification per surviving step. A step that cannot
// resolve a recipient is skipped silently; only malformed configuration
// surfaces as an error.
type Dispatcher struct {
	policies      repositories.PolicyRepository
	templates     repositories.TemplateRepository
	notifications repositories.NotificationRepository
	selector      *RotationSelector
	settings      *SettingsResolver
	counters      Counters
	log           *logrus.Logger
}

// NewDispatcher creates an escalation dispatcher
func NewDispatcher(
	policies repositories.PolicyRepository,
	templates repositories.TemplateRepository,
	notifications repositories.NotificationRepository,
	selector *RotationSelector,
	settings *SettingsResolver,
	counters Counters,
	log *logrus.Logger,
) *Dispatcher {
	return &Dispatcher{
		policies:      policies,
		templates:     templates,
		notifications: notifications,
		selector:      selector,
		settings:      settings,
		counters:      counters,
		log:           log,
	}
}

// HandleAlertTransition implements AlertEventSink
func (d *Dispatcher) HandleAlertTransition(ctx context.Context, alert *models.Alert, status models.AlertStatus) error {
	_, err := d.Emit(ctx, alert, status)
	return err
}

// Emit queues notifications for the alert transition and returns how many
// were queued
func (d *Dispatcher) Emit(ctx context.Context, alert *models.Alert, status models.AlertStatus) (int, error) {
	defaults, err := d.settings.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load dispatch defaults: %w", err)
	}
	if !defaults.NotificationsEnabled {
		return 0, nil
	}

	policies, err := d.policies.ListActiveByStatus(ctx, status)
	if err != nil {
		return 0, fmt.Errorf("failed to load policies: %w", err)
	}

	queued := 0
	for _, policy := range policies {
		if !policy.Matches(alert) {
			continue
		}

		steps, err := d.resolveSteps(ctx, policy, status, defaults)
		if err != nil {
			return queued, err
		}

		for _, step := range steps {
			// Steps may raise the severity bar above their policy's
			if alert.Severity.Rank() < step.SeverityMin.Rank() {
				continue
			}

			recipient, err := d.resolveRecipient(ctx, step, policy, defaults)
			if err != nil {
				return queued, err
			}
			if recipient == "" {
				d.log.WithFields(logrus.Fields{
					"alert_id":  alert.ID,
					"policy_id": policy.ID,
					"step":      step.StepIndex,
				}).Debug("Skipping escalation step with no resolvable recipient")
				continue
			}

			if err := d.enqueue(ctx, alert, policy, step, recipient, defaults); err != nil {
				return queued, err
			}
			queued++
		}
	}

	d.log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"status":   status,
		"queued":   queued,
	}).Info("Escalation dispatch completed")

	return queued, nil
}

// resolveSteps returns the policy's active steps for the transition, or a
// single synthesized step carrying the policy's own channel/recipient/
// template and the configured default delay
func (d *Dispatcher) resolveSteps(ctx context.Context, policy *models.AlertNotificationPolicy, status models.AlertStatus, defaults DispatchDefaults) ([]*models.AlertNotificationPolicyStep, error) {
	steps, err := d.policies.ListActiveSteps(ctx, policy.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy steps: %w", err)
	}
	if len(steps) > 0 {
		return steps, nil
	}

	return []*models.AlertNotificationPolicyStep{{
		PolicyID:     policy.ID,
		DelayMinutes: defaults.DelayMinutes,
		Channel:      policy.Channel,
		Recipient:    policy.Recipient,
		TemplateID:   policy.TemplateID,
		SeverityMin:  policy.SeverityMin,
		Status:       status,
	}}, nil
}

// resolveRecipient walks the fallback chain: step recipient, step rotation,
// policy recipient, configured default rotation, configured default
// recipient. An empty result means soft-skip.
func (d *Dispatcher) resolveRecipient(ctx context.Context, step *models.AlertNotificationPolicyStep, policy *models.AlertNotificationPolicy, defaults DispatchDefaults) (string, error) {
	if step.Recipient != nil && *step.Recipient != "" {
		return *step.Recipient, nil
	}

	if step.RotationID != nil && *step.RotationID != "" {
		member, err := d.selector.Next(ctx, *step.RotationID)
		if err != nil {
			return "", err
		}
		if member != nil {
			return member.Contact, nil
		}
		return "", nil
	}

	if policy.Recipient != nil && *policy.Recipient != "" {
		return *policy.Recipient, nil
	}

	if defaults.RotationID != "" {
		member, err := d.selector.Next(ctx, defaults.RotationID)
		if err != nil {
			return "", err
		}
		if member != nil {
			return member.Contact, nil
		}
	}

	return defaults.Recipient, nil
}

func (d *Dispatcher) enqueue(ctx context.Context, alert *models.Alert, policy *models.AlertNotificationPolicy, step *models.AlertNotificationPolicyStep, recipient string, defaults DispatchDefaults) error {
	subject, body, err := d.render(ctx, alert, step, defaults)
	if err != nil {
		return err
	}

	channel := step.Channel
	if channel == "" {
		channel = defaults.Channel
	}

	var sendAt *time.Time
	if step.DelayMinutes > 0 {
		at := time.Now().UTC().Add(time.Duration(step.DelayMinutes) * time.Minute)
		sendAt = &at
	}

	notification := &models.Notification{
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    models.NotificationQueued,
		SendAt:    sendAt,
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}

	log := &models.AlertNotificationLog{
		AlertID:        alert.ID,
		PolicyID:       policy.ID,
		NotificationID: notification.ID,
	}
	if err := d.notifications.CreateLog(ctx, log); err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}

	if d.counters != nil {
		d.counters.RecordNotificationQueued(string(channel))
	}

	return nil
}

// render returns the template's subject/body verbatim when one is attached,
// or the inline fallback otherwise. A dangling template reference falls back
// to inline rather than failing the dispatch.
func (d *Dispatcher) render(ctx context.Context, alert *models.Alert, step *models.AlertNotificationPolicyStep, defaults DispatchDefaults) (string, string, error) {
	templateID := ""
	if step.TemplateID != nil && *step.TemplateID != "" {
		templateID = *step.TemplateID
	} else if defaults.TemplateID != "" {
		templateID = defaults.TemplateID
	}

	if templateID != "" {
		template, err := d.templates.GetByID(ctx, templateID)
		if err == nil {
			subject := ""
			if template.Subject != nil {
				subject = *template.Subject
			}
			return subject, template.Body, nil
		}
		if !apperrors.IsNotFound(err) {
			return "", "", err
		}
		d.log.WithField("template_id", templateID).Warn("Notification template not found, using inline fallback")
	}

	subject := fmt.Sprintf("Alert %s: %s", alert.Severity, alert.MetricType)
	body := fmt.Sprintf("Alert %s is %s. Metric %s measured %g.",
		alert.ID, alert.Status, alert.MetricType, alert.MeasuredValue)

	return subject, body, nil
}

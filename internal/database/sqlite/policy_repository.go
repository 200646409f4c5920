package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

const policyColumns = `id, name, channel, recipient, template_id, rule_id, device_id, interface_id, severity_min, status, is_active, created_at, updated_at`

const stepColumns = `id, policy_id, step_index, delay_minutes, channel, recipient, template_id, rotation_id, severity_min, status, is_active, created_at, updated_at`

// PolicyRepository implements repositories.PolicyRepository
type PolicyRepository struct {
	db sqlx.ExtContext
}

// NewPolicyRepository creates a new PolicyRepository
func NewPolicyRepository(db sqlx.ExtContext) repositories.PolicyRepository {
	return &PolicyRepository{db: db}
}

// CreatePolicy persists a new notification policy
func (r *PolicyRepository) CreatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	policy.CreatedAt = now
	policy.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO alert_notification_policies (` + policyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		policy.ID, policy.Name, policy.Channel, policy.Recipient, policy.TemplateID,
		policy.RuleID, policy.DeviceID, policy.InterfaceID, policy.SeverityMin,
		policy.Status, policy.IsActive, policy.CreatedAt, policy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification policy: %w", err)
	}

	return nil
}

// GetPolicy retrieves a policy by id
func (r *PolicyRepository) GetPolicy(ctx context.Context, id string) (*models.AlertNotificationPolicy, error) {
	query := r.db.Rebind(`SELECT ` + policyColumns + ` FROM alert_notification_policies WHERE id = ?`)

	policy := &models.AlertNotificationPolicy{}
	err := sqlx.GetContext(ctx, r.db, policy, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("notification policy", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification policy: %w", err)
	}

	return policy, nil
}

// ListPolicies returns policies, optionally including deactivated ones
func (r *PolicyRepository) ListPolicies(ctx context.Context, includeInactive bool) ([]*models.AlertNotificationPolicy, error) {
	query := `SELECT ` + policyColumns + ` FROM alert_notification_policies`
	args := []interface{}{}
	if !includeInactive {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	var policies []*models.AlertNotificationPolicy
	if err := sqlx.SelectContext(ctx, r.db, &policies, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list notification policies: %w", err)
	}

	return policies, nil
}

// UpdatePolicy persists policy changes
func (r *PolicyRepository) UpdatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	policy.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE alert_notification_policies
		SET name = ?, channel = ?, recipient = ?, template_id = ?, rule_id = ?,
		    device_id = ?, interface_id = ?, severity_min = ?, status = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		policy.Name, policy.Channel, policy.Recipient, policy.TemplateID, policy.RuleID,
		policy.DeviceID, policy.InterfaceID, policy.SeverityMin, policy.Status,
		policy.IsActive, policy.UpdatedAt, policy.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification policy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("notification policy", policy.ID)
	}

	return nil
}

// ListActiveByStatus returns active policies reacting to the given transition
func (r *PolicyRepository) ListActiveByStatus(ctx context.Context, status models.AlertStatus) ([]*models.AlertNotificationPolicy, error) {
	query := r.db.Rebind(`
		SELECT ` + policyColumns + `
		FROM alert_notification_policies
		WHERE is_active = ? AND status = ?
		ORDER BY created_at ASC
	`)

	var policies []*models.AlertNotificationPolicy
	if err := sqlx.SelectContext(ctx, r.db, &policies, query, true, status); err != nil {
		return nil, fmt.Errorf("failed to query active policies: %w", err)
	}

	return policies, nil
}

// CreateStep persists a new escalation step
func (r *PolicyRepository) CreateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	step.CreatedAt = now
	step.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO alert_notification_policy_steps (` + stepColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		step.ID, step.PolicyID, step.StepIndex, step.DelayMinutes, step.Channel,
		step.Recipient, step.TemplateID, step.RotationID, step.SeverityMin,
		step.Status, step.IsActive, step.CreatedAt, step.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create policy step: %w", err)
	}

	return nil
}

// GetStep retrieves a step by id
func (r *PolicyRepository) GetStep(ctx context.Context, id string) (*models.AlertNotificationPolicyStep, error) {
	query := r.db.Rebind(`SELECT ` + stepColumns + ` FROM alert_notification_policy_steps WHERE id = ?`)

	step := &models.AlertNotificationPolicyStep{}
	err := sqlx.GetContext(ctx, r.db, step, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("policy step", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy step: %w", err)
	}

	return step, nil
}

// ListSteps returns a policy's steps ordered by step index
func (r *PolicyRepository) ListSteps(ctx context.Context, policyID string, includeInactive bool) ([]*models.AlertNotificationPolicyStep, error) {
	query := `SELECT ` + stepColumns + ` FROM alert_notification_policy_steps WHERE policy_id = ?`
	args := []interface{}{policyID}
	if !includeInactive {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY step_index ASC`

	var steps []*models.AlertNotificationPolicyStep
	if err := sqlx.SelectContext(ctx, r.db, &steps, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list policy steps: %w", err)
	}

	return steps, nil
}

// UpdateStep persists step changes
func (r *PolicyRepository) UpdateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	step.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE alert_notification_policy_steps
		SET step_index = ?, delay_minutes = ?, channel = ?, recipient = ?, template_id = ?,
		    rotation_id = ?, severity_min = ?, status = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		step.StepIndex, step.DelayMinutes, step.Channel, step.Recipient, step.TemplateID,
		step.RotationID, step.SeverityMin, step.Status, step.IsActive, step.UpdatedAt,
		step.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update policy step: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("policy step", step.ID)
	}

	return nil
}

// ListActiveSteps returns the active steps reacting to the given transition
// status, ordered by step_index ascending
func (r *PolicyRepository) ListActiveSteps(ctx context.Context, policyID string, status models.AlertStatus) ([]*models.AlertNotificationPolicyStep, error) {
	query := r.db.Rebind(`
		SELECT ` + stepColumns + `
		FROM alert_notification_policy_steps
		WHERE policy_id = ? AND is_active = ? AND status = ?
		ORDER BY step_index ASC
	`)

	var steps []*models.AlertNotificationPolicyStep
	if err := sqlx.SelectContext(ctx, r.db, &steps, query, policyID, true, status); err != nil {
		return nil, fmt.Errorf("failed to query active steps: %w", err)
	}

	return steps, nil
}

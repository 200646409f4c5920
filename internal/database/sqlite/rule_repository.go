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

const ruleColumns = `id, name, metric_type, operator, threshold, duration_seconds, severity, device_id, interface_id, is_active, created_at, updated_at`

// RuleRepository implements repositories.RuleRepository
type RuleRepository struct {
	db sqlx.ExtContext
}

// NewRuleRepository creates a new RuleRepository
func NewRuleRepository(db sqlx.ExtContext) repositories.RuleRepository {
	return &RuleRepository{db: db}
}

// Create persists a new alert rule
func (r *RuleRepository) Create(ctx context.Context, rule *models.AlertRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO alert_rules (` + ruleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.MetricType, rule.Operator, rule.Threshold,
		rule.DurationSeconds, rule.Severity, rule.DeviceID, rule.InterfaceID,
		rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule. Deactivated rules stay addressable for audit
// joins, so tombstoning is not treated as not-found here.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*models.AlertRule, error) {
	query := r.db.Rebind(`SELECT ` + ruleColumns + ` FROM alert_rules WHERE id = ?`)

	rule := &models.AlertRule{}
	err := sqlx.GetContext(ctx, r.db, rule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("alert rule", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert rule: %w", err)
	}

	return rule, nil
}

// GetByIDs retrieves the rules for every given id, in no particular order
func (r *RuleRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.AlertRule, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+ruleColumns+` FROM alert_rules WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule query: %w", err)
	}

	var rules []*models.AlertRule
	if err := sqlx.SelectContext(ctx, r.db, &rules, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get alert rules: %w", err)
	}

	return rules, nil
}

// List returns rules, optionally including deactivated ones
func (r *RuleRepository) List(ctx context.Context, includeInactive bool) ([]*models.AlertRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM alert_rules`
	if !includeInactive {
		query += ` WHERE is_active = ?`
	}
	query += ` ORDER BY created_at DESC`

	var rules []*models.AlertRule
	var err error
	if includeInactive {
		err = sqlx.SelectContext(ctx, r.db, &rules, r.db.Rebind(query))
	} else {
		err = sqlx.SelectContext(ctx, r.db, &rules, r.db.Rebind(query), true)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}

	return rules, nil
}

// Update persists rule changes
func (r *RuleRepository) Update(ctx context.Context, rule *models.AlertRule) error {
	rule.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE alert_rules
		SET name = ?, metric_type = ?, operator = ?, threshold = ?, duration_seconds = ?,
		    severity = ?, device_id = ?, interface_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		rule.Name, rule.MetricType, rule.Operator, rule.Threshold, rule.DurationSeconds,
		rule.Severity, rule.DeviceID, rule.InterfaceID, rule.IsActive, rule.UpdatedAt,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert rule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("alert rule", rule.ID)
	}

	return nil
}

// SetActive flips the active flag for every given rule id. A single missing
// id fails the whole batch before any mutation.
func (r *RuleRepository) SetActive(ctx context.Context, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	existing, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	found := make(map[string]bool, len(existing))
	for _, rule := range existing {
		found[rule.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return 0, apperrors.NewNotFound("alert rule", id)
		}
	}

	query, args, err := sqlx.In(`UPDATE alert_rules SET is_active = ?, updated_at = ? WHERE id IN (?)`,
		active, time.Now().UTC(), ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build bulk update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update alert rules: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// GetMatching returns active rules for the metric type whose scoping fields,
// when set, equal the sample's device/interface. Platform-wide rules (both
// scoping fields null) always match their metric type.
func (r *RuleRepository) GetMatching(ctx context.Context, metricType string, deviceID string, interfaceID *string) ([]*models.AlertRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM alert_rules
		WHERE is_active = ? AND metric_type = ?
		  AND (device_id IS NULL OR device_id = ?)
	`
	args := []interface{}{true, metricType, deviceID}

	if interfaceID != nil {
		query += ` AND (interface_id IS NULL OR interface_id = ?)`
		args = append(args, *interfaceID)
	} else {
		query += ` AND interface_id IS NULL`
	}

	query += ` ORDER BY created_at ASC`

	var rules []*models.AlertRule
	if err := sqlx.SelectContext(ctx, r.db, &rules, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query matching rules: %w", err)
	}

	return rules, nil
}

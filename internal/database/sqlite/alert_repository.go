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

const alertColumns = `id, rule_id, device_id, interface_id, metric_type, measured_value, status, severity, triggered_at, acknowledged_at, resolved_at`

// AlertRepository implements repositories.AlertRepository
type AlertRepository struct {
	db sqlx.ExtContext
}

// NewAlertRepository creates a new AlertRepository
func NewAlertRepository(db sqlx.ExtContext) repositories.AlertRepository {
	return &AlertRepository{db: db}
}

// Create persists a new alert. The partial unique index on the dedup key
// rejects a second open/acknowledged alert for the same rule/device/interface.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.TriggeredAt = alert.TriggeredAt.UTC()

	query := r.db.Rebind(`
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.RuleID, alert.DeviceID, alert.InterfaceID, alert.MetricType,
		alert.MeasuredValue, alert.Status, alert.Severity, alert.TriggeredAt,
		alert.AcknowledgedAt, alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// GetByID retrieves an alert by id
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	query := r.db.Rebind(`SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`)

	alert := &models.Alert{}
	err := sqlx.GetContext(ctx, r.db, alert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("alert", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return alert, nil
}

// GetByIDs retrieves the alerts for every given id, in no particular order
func (r *AlertRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Alert, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+alertColumns+` FROM alerts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert query: %w", err)
	}

	var alerts []*models.Alert
	if err := sqlx.SelectContext(ctx, r.db, &alerts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	return alerts, nil
}

// GetActiveByKey returns the open or acknowledged alert for the dedup key,
// or nil when none exists
func (r *AlertRepository) GetActiveByKey(ctx context.Context, ruleID string, deviceID, interfaceID *string) (*models.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE rule_id = ? AND status IN (?, ?)
	`
	args := []interface{}{ruleID, models.AlertStatusOpen, models.AlertStatusAcknowledged}

	if deviceID != nil {
		query += ` AND device_id = ?`
		args = append(args, *deviceID)
	} else {
		query += ` AND device_id IS NULL`
	}
	if interfaceID != nil {
		query += ` AND interface_id = ?`
		args = append(args, *interfaceID)
	} else {
		query += ` AND interface_id IS NULL`
	}

	alert := &models.Alert{}
	err := sqlx.GetContext(ctx, r.db, alert, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active alert: %w", err)
	}

	return alert, nil
}

// UpdateMeasuredValue refreshes the latest measured value on an alert
func (r *AlertRepository) UpdateMeasuredValue(ctx context.Context, id string, value float64) error {
	query := r.db.Rebind(`UPDATE alerts SET measured_value = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update measured value: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("alert", id)
	}

	return nil
}

// UpdateStatus persists a state transition
func (r *AlertRepository) UpdateStatus(ctx context.Context, alert *models.Alert) error {
	query := r.db.Rebind(`
		UPDATE alerts
		SET status = ?, measured_value = ?, acknowledged_at = ?, resolved_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		alert.Status, alert.MeasuredValue, alert.AcknowledgedAt, alert.ResolvedAt, alert.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("alert", alert.ID)
	}

	return nil
}

// List returns alerts matching the filter
func (r *AlertRepository) List(ctx context.Context, filter *models.AlertFilter) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE 1=1`
	args := []interface{}{}

	if filter.RuleID != nil {
		query += ` AND rule_id = ?`
		args = append(args, *filter.RuleID)
	}
	if filter.DeviceID != nil {
		query += ` AND device_id = ?`
		args = append(args, *filter.DeviceID)
	}
	if filter.InterfaceID != nil {
		query += ` AND interface_id = ?`
		args = append(args, *filter.InterfaceID)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filter.Status)
	}
	if filter.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, *filter.Severity)
	}

	orderBy := "triggered_at"
	switch filter.OrderBy {
	case "severity", "status", "triggered_at", "resolved_at":
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "asc" {
		orderDir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, orderDir)

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	var alerts []*models.Alert
	if err := sqlx.SelectContext(ctx, r.db, &alerts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

// AppendEvent writes one immutable audit row
func (r *AlertRepository) AppendEvent(ctx context.Context, event *models.AlertEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO alert_events (id, alert_id, status, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.AlertID, event.Status, event.Message, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append alert event: %w", err)
	}

	return nil
}

// ListEvents returns the audit trail for an alert, oldest first
func (r *AlertRepository) ListEvents(ctx context.Context, alertID string) ([]*models.AlertEvent, error) {
	query := r.db.Rebind(`
		SELECT id, alert_id, status, message, created_at
		FROM alert_events
		WHERE alert_id = ?
		ORDER BY created_at ASC
	`)

	var events []*models.AlertEvent
	if err := sqlx.SelectContext(ctx, r.db, &events, query, alertID); err != nil {
		return nil, fmt.Errorf("failed to list alert events: %w", err)
	}

	return events, nil
}

// ListIntersecting returns alerts for the metric type whose downtime
// interval intersects [start, end]. Unresolved alerts intersect any window
// that starts before now.
func (r *AlertRepository) ListIntersecting(ctx context.Context, metricType string, start, end time.Time) ([]*models.Alert, error) {
	query := r.db.Rebind(`
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE metric_type = ?
		  AND triggered_at < ?
		  AND (resolved_at IS NULL OR resolved_at > ?)
		ORDER BY triggered_at ASC
	`)

	var alerts []*models.Alert
	if err := sqlx.SelectContext(ctx, r.db, &alerts, query, metricType, end.UTC(), start.UTC()); err != nil {
		return nil, fmt.Errorf("failed to query intersecting alerts: %w", err)
	}

	return alerts, nil
}

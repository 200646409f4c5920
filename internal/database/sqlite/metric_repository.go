package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// MetricRepository implements repositories.MetricRepository
type MetricRepository struct {
	db sqlx.ExtContext
}

// NewMetricRepository creates a new MetricRepository
func NewMetricRepository(db sqlx.ExtContext) repositories.MetricRepository {
	return &MetricRepository{db: db}
}

// Create persists one immutable metric sample
func (r *MetricRepository) Create(ctx context.Context, metric *models.Metric) error {
	if metric.ID == "" {
		metric.ID = uuid.NewString()
	}
	metric.RecordedAt = metric.RecordedAt.UTC()
	metric.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO metrics (id, device_id, interface_id, metric_type, value, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		metric.ID,
		metric.DeviceID,
		metric.InterfaceID,
		metric.MetricType,
		metric.Value,
		metric.RecordedAt,
		metric.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create metric: %w", err)
	}

	return nil
}

// List returns metric samples matching the filter, newest first
func (r *MetricRepository) List(ctx context.Context, filter *models.MetricFilter) ([]*models.Metric, error) {
	query := `
		SELECT id, device_id, interface_id, metric_type, value, recorded_at, created_at
		FROM metrics
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.DeviceID != nil {
		query += " AND device_id = ?"
		args = append(args, *filter.DeviceID)
	}
	if filter.InterfaceID != nil {
		query += " AND interface_id = ?"
		args = append(args, *filter.InterfaceID)
	}
	if filter.MetricType != nil {
		query += " AND metric_type = ?"
		args = append(args, *filter.MetricType)
	}
	if filter.RecordedFrom != nil {
		query += " AND recorded_at >= ?"
		args = append(args, filter.RecordedFrom.UTC())
	}
	if filter.RecordedTo != nil {
		query += " AND recorded_at <= ?"
		args = append(args, filter.RecordedTo.UTC())
	}

	query += " ORDER BY recorded_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	var metrics []*models.Metric
	if err := sqlx.SelectContext(ctx, r.db, &metrics, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	return metrics, nil
}

// ListWindow returns all samples for the device/interface/metric type
// recorded in [from, to], oldest first
func (r *MetricRepository) ListWindow(ctx context.Context, deviceID string, interfaceID *string, metricType string, from, to time.Time) ([]*models.Metric, error) {
	query := `
		SELECT id, device_id, interface_id, metric_type, value, recorded_at, created_at
		FROM metrics
		WHERE device_id = ? AND metric_type = ? AND recorded_at >= ? AND recorded_at <= ?
	`
	args := []interface{}{deviceID, metricType, from.UTC(), to.UTC()}

	if interfaceID != nil {
		query += " AND interface_id = ?"
		args = append(args, *interfaceID)
	} else {
		query += " AND interface_id IS NULL"
	}

	query += " ORDER BY recorded_at ASC"

	var metrics []*models.Metric
	if err := sqlx.SelectContext(ctx, r.db, &metrics, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query metric window: %w", err)
	}

	return metrics, nil
}

// DeleteBefore purges samples older than the cutoff and returns the count
func (r *MetricRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM metrics WHERE recorded_at < ?`)

	result, err := r.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old metrics: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

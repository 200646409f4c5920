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

const notificationColumns = `id, channel, recipient, subject, body, status, send_at, created_at, updated_at`

// NotificationRepository implements repositories.NotificationRepository
type NotificationRepository struct {
	db sqlx.ExtContext
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db sqlx.ExtContext) repositories.NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create enqueues a notification for the delivery collaborator
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.Status == "" {
		notification.Status = models.NotificationQueued
	}
	now := time.Now().UTC()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		notification.ID, notification.Channel, notification.Recipient, notification.Subject,
		notification.Body, notification.Status, notification.SendAt,
		notification.CreatedAt, notification.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateLog links a notification back to the alert and policy that caused it
func (r *NotificationRepository) CreateLog(ctx context.Context, log *models.AlertNotificationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO alert_notification_logs (id, alert_id, policy_id, notification_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.AlertID, log.PolicyID, log.NotificationID, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by id
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	query := r.db.Rebind(`SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`)

	notification := &models.Notification{}
	err := sqlx.GetContext(ctx, r.db, notification, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("notification", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// List returns notifications, optionally filtered by status, newest first
func (r *NotificationRepository) List(ctx context.Context, status *models.NotificationStatus, limit, offset int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var notifications []*models.Notification
	if err := sqlx.SelectContext(ctx, r.db, &notifications, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// ListLogsForAlert returns the notification trail of an alert
func (r *NotificationRepository) ListLogsForAlert(ctx context.Context, alertID string) ([]*models.AlertNotificationLog, error) {
	query := r.db.Rebind(`
		SELECT id, alert_id, policy_id, notification_id, created_at
		FROM alert_notification_logs
		WHERE alert_id = ?
		ORDER BY created_at ASC
	`)

	var logs []*models.AlertNotificationLog
	if err := sqlx.SelectContext(ctx, r.db, &logs, query, alertID); err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}

	return logs, nil
}

// ClaimDue transitions queued notifications whose send_at has passed (or is
// null) to sending and returns them, oldest first
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	selectQuery := r.db.Rebind(`
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = ? AND (send_at IS NULL OR send_at <= ?)
		ORDER BY created_at ASC
		LIMIT ?
	`)

	var due []*models.Notification
	if err := sqlx.SelectContext(ctx, r.db, &due, selectQuery, models.NotificationQueued, now.UTC(), limit); err != nil {
		return nil, fmt.Errorf("failed to query due notifications: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(due))
	for _, n := range due {
		ids = append(ids, n.ID)
		n.Status = models.NotificationSending
	}

	updateQuery, args, err := sqlx.In(`UPDATE notifications SET status = ?, updated_at = ? WHERE id IN (?)`,
		models.NotificationSending, now.UTC(), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build claim update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(updateQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to claim notifications: %w", err)
	}

	return due, nil
}

// RecordDelivery stores the delivery worker's outcome and moves the
// notification to its terminal status
func (r *NotificationRepository) RecordDelivery(ctx context.Context, delivery *models.NotificationDelivery) error {
	if delivery.Status != models.NotificationDelivered && delivery.Status != models.NotificationFailed {
		return apperrors.NewValidation("delivery status must be delivered or failed")
	}

	if delivery.ID == "" {
		delivery.ID = uuid.NewString()
	}
	delivery.CreatedAt = time.Now().UTC()

	updateQuery := r.db.Rebind(`UPDATE notifications SET status = ?, updated_at = ? WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, updateQuery, delivery.Status, delivery.CreatedAt, delivery.NotificationID)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("notification", delivery.NotificationID)
	}

	insertQuery := r.db.Rebind(`
		INSERT INTO notification_deliveries (id, notification_id, status, provider_message_id, provider_response, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, insertQuery,
		delivery.ID, delivery.NotificationID, delivery.Status,
		delivery.ProviderMessageID, delivery.ProviderResponse, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	return nil
}

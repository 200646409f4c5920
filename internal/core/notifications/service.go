package notifications

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Service is the handoff surface for the external delivery worker: the
// worker claims due queued notifications, sends them through its provider,
// and reports the outcome. The dispatcher never waits on any of this.
type Service struct {
	db    *sqlx.DB
	repos *database.Repositories
	log   *logrus.Logger
}

// NewService creates the notification service
func NewService(db *sqlx.DB, repos *database.Repositories, log *logrus.Logger) *Service {
	return &Service{db: db, repos: repos, log: log}
}

// Get returns one notification by id
func (s *Service) Get(ctx context.Context, id string) (*models.Notification, error) {
	return s.repos.Notifications.GetByID(ctx, id)
}

// List returns notifications, optionally filtered by status
func (s *Service) List(ctx context.Context, status *models.NotificationStatus, limit, offset int) ([]*models.Notification, error) {
	return s.repos.Notifications.List(ctx, status, limit, offset)
}

// ListForAlert returns the notification log rows for one alert
func (s *Service) ListForAlert(ctx context.Context, alertID string) ([]*models.AlertNotificationLog, error) {
	if _, err := s.repos.Alerts.GetByID(ctx, alertID); err != nil {
		return nil, err
	}
	return s.repos.Notifications.ListLogsForAlert(ctx, alertID)
}

// ClaimDue atomically moves due queued notifications to sending and hands
// them to the delivery worker
func (s *Service) ClaimDue(ctx context.Context, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var claimed []*models.Notification
	err := database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)
		var err error
		claimed, err = r.Notifications.ClaimDue(ctx, time.Now().UTC(), limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(claimed) > 0 {
		s.log.WithField("count", len(claimed)).Info("Notifications claimed for delivery")
	}
	return claimed, nil
}

// RecordDelivery stores the delivery worker's provider outcome and moves
// the notification to its terminal status
func (s *Service) RecordDelivery(ctx context.Context, delivery *models.NotificationDelivery) error {
	if delivery.NotificationID == "" {
		return apperrors.NewValidation("notification_id is required")
	}
	if delivery.Status != models.NotificationDelivered && delivery.Status != models.NotificationFailed {
		return apperrors.NewInvalidEnum("status", string(delivery.Status))
	}

	return database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)
		return r.Notifications.RecordDelivery(ctx, delivery)
	})
}

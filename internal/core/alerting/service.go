package alerting

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Service is the operator-facing alert surface: listing, acknowledge,
// resolve, and the all-or-nothing bulk variants. Each mutating call runs in
// its own transaction with escalation dispatch inside it.
type Service struct {
	db         *sqlx.DB
	repos      *database.Repositories
	settings   *SettingsResolver
	counters   Counters
	extraSinks []AlertEventSink
	log        *logrus.Logger
}

// NewService creates the alert service
func NewService(db *sqlx.DB, repos *database.Repositories, settings *SettingsResolver, counters Counters, log *logrus.Logger, extraSinks ...AlertEventSink) *Service {
	return &Service{db: db, repos: repos, settings: settings, counters: counters, extraSinks: extraSinks, log: log}
}

// List returns alerts matching the filter
func (s *Service) List(ctx context.Context, filter *models.AlertFilter) ([]*models.Alert, error) {
	return s.repos.Alerts.List(ctx, filter)
}

// Get returns one alert by id
func (s *Service) Get(ctx context.Context, id string) (*models.Alert, error) {
	return s.repos.Alerts.GetByID(ctx, id)
}

// ListEvents returns the alert's audit trail oldest first
func (s *Service) ListEvents(ctx context.Context, alertID string) ([]*models.AlertEvent, error) {
	if _, err := s.repos.Alerts.GetByID(ctx, alertID); err != nil {
		return nil, err
	}
	return s.repos.Alerts.ListEvents(ctx, alertID)
}

// Acknowledge marks the alert acknowledged
func (s *Service) Acknowledge(ctx context.Context, id string, message *string) (*models.Alert, error) {
	return s.transition(ctx, id, models.AlertStatusAcknowledged, message)
}

// Resolve marks the alert resolved
func (s *Service) Resolve(ctx context.Context, id string, message *string) (*models.Alert, error) {
	return s.transition(ctx, id, models.AlertStatusResolved, message)
}

func (s *Service) transition(ctx context.Context, id string, target models.AlertStatus, message *string) (*models.Alert, error) {
	var alert *models.Alert
	err := database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)
		lifecycle := s.lifecycle(r)

		var err error
		alert, err = lifecycle.Transition(ctx, id, target, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// BulkAcknowledge acknowledges every listed alert, or none when any id is
// unknown
func (s *Service) BulkAcknowledge(ctx context.Context, ids []string, message *string) (int64, error) {
	return s.bulkTransition(ctx, ids, models.AlertStatusAcknowledged, message)
}

// BulkResolve resolves every listed alert, or none when any id is unknown
func (s *Service) BulkResolve(ctx context.Context, ids []string, message *string) (int64, error) {
	return s.bulkTransition(ctx, ids, models.AlertStatusResolved, message)
}

func (s *Service) bulkTransition(ctx context.Context, ids []string, target models.AlertStatus, message *string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidation("at least one alert id is required")
	}

	var count int64
	err := database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)

		alerts, err := r.Alerts.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[string]bool, len(alerts))
		for _, alert := range alerts {
			found[alert.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return apperrors.NewNotFound("alert", id)
			}
		}

		lifecycle := s.lifecycle(r)
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, err := lifecycle.Transition(ctx, id, target, message); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) lifecycle(r *database.Repositories) *Lifecycle {
	dispatcher := NewDispatcher(
		r.Policies,
		r.Templates,
		r.Notifications,
		NewRotationSelector(r.Rotations),
		s.settings,
		s.counters,
		s.log,
	)
	sinks := append([]AlertEventSink{dispatcher}, s.extraSinks...)
	return NewLifecycle(r.Alerts, s.log, sinks...)
}

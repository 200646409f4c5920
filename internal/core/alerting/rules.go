package alerting

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// RuleService manages alert rule configuration. Rules are soft-deactivated,
// never hard-deleted, so audit rows keep resolving.
type RuleService struct {
	db    *sqlx.DB
	repos *database.Repositories
	log   *logrus.Logger
}

// NewRuleService creates the rule service
func NewRuleService(db *sqlx.DB, repos *database.Repositories, log *logrus.Logger) *RuleService {
	return &RuleService{db: db, repos: repos, log: log}
}

// Create validates and persists a new rule
func (s *RuleService) Create(ctx context.Context, rule *models.AlertRule) error {
	if err := s.validate(rule); err != nil {
		return err
	}
	rule.IsActive = true
	return s.repos.Rules.Create(ctx, rule)
}

// Get returns one rule by id
func (s *RuleService) Get(ctx context.Context, id string) (*models.AlertRule, error) {
	return s.repos.Rules.GetByID(ctx, id)
}

// List returns rules, optionally including deactivated ones
func (s *RuleService) List(ctx context.Context, includeInactive bool) ([]*models.AlertRule, error) {
	return s.repos.Rules.List(ctx, includeInactive)
}

// Update validates and persists rule changes
func (s *RuleService) Update(ctx context.Context, rule *models.AlertRule) error {
	if err := s.validate(rule); err != nil {
		return err
	}
	return s.repos.Rules.Update(ctx, rule)
}

// Deactivate tombstones a rule
func (s *RuleService) Deactivate(ctx context.Context, id string) error {
	_, err := s.BulkSetActive(ctx, []string{id}, false)
	return err
}

// BulkSetActive flips the active flag on every listed rule, or none when
// any id is unknown
func (s *RuleService) BulkSetActive(ctx context.Context, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.NewValidation("at least one rule id is required")
	}

	var count int64
	err := database.Transact(ctx, s.db, func(tx *sqlx.Tx) error {
		r := s.repos.WithTx(tx)
		var err error
		count, err = r.Rules.SetActive(ctx, ids, active)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"count": count, "active": active}).Info("Bulk rule activation applied")
	return count, nil
}

func (s *RuleService) validate(rule *models.AlertRule) error {
	if rule.Name == "" {
		return apperrors.NewValidation("rule name is required")
	}
	if rule.MetricType == "" {
		return apperrors.NewValidation("metric_type is required")
	}
	if _, err := models.ParseOperator(string(rule.Operator)); err != nil {
		return err
	}
	if _, err := models.ParseSeverity(string(rule.Severity)); err != nil {
		return err
	}
	if rule.DurationSeconds < 0 {
		return apperrors.NewValidation(fmt.Sprintf("duration_seconds must not be negative, got %d", rule.DurationSeconds))
	}
	return nil
}

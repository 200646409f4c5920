package alerting

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// EscalationConfigService manages the escalation configuration surface:
// policies, steps, rotations, members, and templates. Ordinary CRUD consumed
// by the dispatcher.
type EscalationConfigService struct {
	repos *database.Repositories
	log   *logrus.Logger
}

// NewEscalationConfigService creates the escalation configuration service
func NewEscalationConfigService(repos *database.Repositories, log *logrus.Logger) *EscalationConfigService {
	return &EscalationConfigService{repos: repos, log: log}
}

// CreatePolicy validates and persists a new policy
func (s *EscalationConfigService) CreatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	if err := s.validatePolicy(policy); err != nil {
		return err
	}
	policy.IsActive = true
	return s.repos.Policies.CreatePolicy(ctx, policy)
}

// GetPolicy returns one policy by id
func (s *EscalationConfigService) GetPolicy(ctx context.Context, id string) (*models.AlertNotificationPolicy, error) {
	return s.repos.Policies.GetPolicy(ctx, id)
}

// ListPolicies returns policies, optionally including deactivated ones
func (s *EscalationConfigService) ListPolicies(ctx context.Context, includeInactive bool) ([]*models.AlertNotificationPolicy, error) {
	return s.repos.Policies.ListPolicies(ctx, includeInactive)
}

// UpdatePolicy validates and persists policy changes
func (s *EscalationConfigService) UpdatePolicy(ctx context.Context, policy *models.AlertNotificationPolicy) error {
	if err := s.validatePolicy(policy); err != nil {
		return err
	}
	return s.repos.Policies.UpdatePolicy(ctx, policy)
}

// CreateStep validates and persists a new policy step
func (s *EscalationConfigService) CreateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	if err := s.validateStep(step); err != nil {
		return err
	}
	if _, err := s.repos.Policies.GetPolicy(ctx, step.PolicyID); err != nil {
		return err
	}
	step.IsActive = true
	return s.repos.Policies.CreateStep(ctx, step)
}

// GetStep returns one policy step by id
func (s *EscalationConfigService) GetStep(ctx context.Context, id string) (*models.AlertNotificationPolicyStep, error) {
	return s.repos.Policies.GetStep(ctx, id)
}

// ListSteps returns a policy's steps ordered by step_index
func (s *EscalationConfigService) ListSteps(ctx context.Context, policyID string, includeInactive bool) ([]*models.AlertNotificationPolicyStep, error) {
	if _, err := s.repos.Policies.GetPolicy(ctx, policyID); err != nil {
		return nil, err
	}
	return s.repos.Policies.ListSteps(ctx, policyID, includeInactive)
}

// UpdateStep validates and persists step changes
func (s *EscalationConfigService) UpdateStep(ctx context.Context, step *models.AlertNotificationPolicyStep) error {
	if err := s.validateStep(step); err != nil {
		return err
	}
	return s.repos.Policies.UpdateStep(ctx, step)
}

// CreateRotation persists a new rotation
func (s *EscalationConfigService) CreateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	if rotation.Name == "" {
		return apperrors.NewValidation("rotation name is required")
	}
	rotation.IsActive = true
	return s.repos.Rotations.CreateRotation(ctx, rotation)
}

// GetRotation returns one rotation by id
func (s *EscalationConfigService) GetRotation(ctx context.Context, id string) (*models.OnCallRotation, error) {
	return s.repos.Rotations.GetRotation(ctx, id)
}

// ListRotations returns all rotations
func (s *EscalationConfigService) ListRotations(ctx context.Context) ([]*models.OnCallRotation, error) {
	return s.repos.Rotations.ListRotations(ctx)
}

// UpdateRotation persists rotation changes
func (s *EscalationConfigService) UpdateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	if rotation.Name == "" {
		return apperrors.NewValidation("rotation name is required")
	}
	return s.repos.Rotations.UpdateRotation(ctx, rotation)
}

// CreateMember validates and persists a new rotation member
func (s *EscalationConfigService) CreateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	if member.Contact == "" {
		return apperrors.NewValidation("member contact is required")
	}
	if _, err := s.repos.Rotations.GetRotation(ctx, member.RotationID); err != nil {
		return err
	}
	member.IsActive = true
	return s.repos.Rotations.CreateMember(ctx, member)
}

// ListMembers returns a rotation's members
func (s *EscalationConfigService) ListMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error) {
	if _, err := s.repos.Rotations.GetRotation(ctx, rotationID); err != nil {
		return nil, err
	}
	return s.repos.Rotations.ListMembers(ctx, rotationID)
}

// UpdateMember persists member changes
func (s *EscalationConfigService) UpdateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	if member.Contact == "" {
		return apperrors.NewValidation("member contact is required")
	}
	return s.repos.Rotations.UpdateMember(ctx, member)
}

// CreateTemplate validates and persists a new notification template
func (s *EscalationConfigService) CreateTemplate(ctx context.Context, template *models.NotificationTemplate) error {
	if err := s.validateTemplate(template); err != nil {
		return err
	}
	return s.repos.Templates.Create(ctx, template)
}

// GetTemplate returns one template by id
func (s *EscalationConfigService) GetTemplate(ctx context.Context, id string) (*models.NotificationTemplate, error) {
	return s.repos.Templates.GetByID(ctx, id)
}

// ListTemplates returns all templates
func (s *EscalationConfigService) ListTemplates(ctx context.Context) ([]*models.NotificationTemplate, error) {
	return s.repos.Templates.List(ctx)
}

// UpdateTemplate validates and persists template changes
func (s *EscalationConfigService) UpdateTemplate(ctx context.Context, template *models.NotificationTemplate) error {
	if err := s.validateTemplate(template); err != nil {
		return err
	}
	return s.repos.Templates.Update(ctx, template)
}

// DeleteTemplate removes a template
func (s *EscalationConfigService) DeleteTemplate(ctx context.Context, id string) error {
	return s.repos.Templates.Delete(ctx, id)
}

func (s *EscalationConfigService) validatePolicy(policy *models.AlertNotificationPolicy) error {
	if policy.Name == "" {
		return apperrors.NewValidation("policy name is required")
	}
	if _, err := models.ParseChannel(string(policy.Channel)); err != nil {
		return err
	}
	if _, err := models.ParseSeverity(string(policy.SeverityMin)); err != nil {
		return err
	}
	return s.validateTransitionStatus(policy.Status)
}

func (s *EscalationConfigService) validateStep(step *models.AlertNotificationPolicyStep) error {
	if _, err := models.ParseChannel(string(step.Channel)); err != nil {
		return err
	}
	if _, err := models.ParseSeverity(string(step.SeverityMin)); err != nil {
		return err
	}
	if step.DelayMinutes < 0 {
		return apperrors.NewValidation("delay_minutes must not be negative")
	}
	if step.StepIndex < 0 {
		return apperrors.NewValidation("step_index must not be negative")
	}
	return s.validateTransitionStatus(step.Status)
}

func (s *EscalationConfigService) validateTemplate(template *models.NotificationTemplate) error {
	if template.Name == "" {
		return apperrors.NewValidation("template name is required")
	}
	if template.Body == "" {
		return apperrors.NewValidation("template body is required")
	}
	if _, err := models.ParseChannel(string(template.Channel)); err != nil {
		return err
	}
	return nil
}

// Policies react to the open and resolved transitions only
func (s *EscalationConfigService) validateTransitionStatus(status models.AlertStatus) error {
	if status != models.AlertStatusOpen && status != models.AlertStatusResolved {
		return apperrors.NewInvalidEnum("status", string(status))
	}
	return nil
}

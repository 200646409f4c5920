package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

func newEscalationConfigService(policies *fakePolicyRepo, rotations *fakeRotationRepo, templates *fakeTemplateRepo) *EscalationConfigService {
	return NewEscalationConfigService(&database.Repositories{
		Policies:  policies,
		Rotations: rotations,
		Templates: templates,
	}, testLogger())
}

func validPolicy() *models.AlertNotificationPolicy {
	return &models.AlertNotificationPolicy{
		Name:        "noc escalation",
		Channel:     models.ChannelEmail,
		SeverityMin: models.SeverityWarning,
		Status:      models.AlertStatusOpen,
	}
}

func TestEscalationConfigService_CreatePolicyValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *models.AlertNotificationPolicy)
	}{
		{name: "missing name", mutate: func(p *models.AlertNotificationPolicy) { p.Name = "" }},
		{name: "unknown channel", mutate: func(p *models.AlertNotificationPolicy) { p.Channel = "fax" }},
		{name: "unknown severity", mutate: func(p *models.AlertNotificationPolicy) { p.SeverityMin = "urgent" }},
		{
			name:   "acknowledged is not a dispatchable transition",
			mutate: func(p *models.AlertNotificationPolicy) { p.Status = models.AlertStatusAcknowledged },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policies := &fakePolicyRepo{}
			service := newEscalationConfigService(policies, &fakeRotationRepo{}, &fakeTemplateRepo{})

			policy := validPolicy()
			tt.mutate(policy)

			err := service.CreatePolicy(context.Background(), policy)
			require.Error(t, err)
			assert.True(t, apperrors.IsAppError(err))
			assert.Empty(t, policies.policies)
		})
	}
}

func TestEscalationConfigService_CreatePolicyActivates(t *testing.T) {
	policies := &fakePolicyRepo{}
	service := newEscalationConfigService(policies, &fakeRotationRepo{}, &fakeTemplateRepo{})

	require.NoError(t, service.CreatePolicy(context.Background(), validPolicy()))
	require.Len(t, policies.policies, 1)
	assert.True(t, policies.policies[0].IsActive)
}

func TestEscalationConfigService_CreateStepRequiresKnownPolicy(t *testing.T) {
	service := newEscalationConfigService(&fakePolicyRepo{}, &fakeRotationRepo{}, &fakeTemplateRepo{})

	err := service.CreateStep(context.Background(), &models.AlertNotificationPolicyStep{
		PolicyID:    "missing",
		Channel:     models.ChannelEmail,
		SeverityMin: models.SeverityInfo,
		Status:      models.AlertStatusOpen,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEscalationConfigService_CreateStepValidation(t *testing.T) {
	policies := &fakePolicyRepo{}
	policy := validPolicy()
	policy.ID = "policy-1"
	policies.policies = []*models.AlertNotificationPolicy{policy}
	service := newEscalationConfigService(policies, &fakeRotationRepo{}, &fakeTemplateRepo{})

	err := service.CreateStep(context.Background(), &models.AlertNotificationPolicyStep{
		PolicyID:     "policy-1",
		Channel:      models.ChannelEmail,
		SeverityMin:  models.SeverityInfo,
		Status:       models.AlertStatusOpen,
		DelayMinutes: -5,
	})
	assert.True(t, apperrors.IsValidation(err))

	err = service.CreateStep(context.Background(), &models.AlertNotificationPolicyStep{
		PolicyID:    "policy-1",
		Channel:     models.ChannelSMS,
		SeverityMin: models.SeverityInfo,
		Status:      models.AlertStatusOpen,
	})
	require.NoError(t, err)
	require.Len(t, policies.steps, 1)
	assert.True(t, policies.steps[0].IsActive)
}

func TestEscalationConfigService_RotationValidation(t *testing.T) {
	service := newEscalationConfigService(&fakePolicyRepo{}, &fakeRotationRepo{}, &fakeTemplateRepo{})
	ctx := context.Background()

	err := service.CreateRotation(ctx, &models.OnCallRotation{})
	assert.True(t, apperrors.IsValidation(err))

	err = service.CreateMember(ctx, &models.OnCallRotationMember{RotationID: "rotation-1"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestEscalationConfigService_TemplateValidation(t *testing.T) {
	templates := &fakeTemplateRepo{}
	service := newEscalationConfigService(&fakePolicyRepo{}, &fakeRotationRepo{}, templates)
	ctx := context.Background()

	err := service.CreateTemplate(ctx, &models.NotificationTemplate{Channel: models.ChannelEmail, Body: "b"})
	assert.True(t, apperrors.IsValidation(err))

	err = service.CreateTemplate(ctx, &models.NotificationTemplate{Name: "outage", Channel: models.ChannelEmail})
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, service.CreateTemplate(ctx, &models.NotificationTemplate{
		Name:    "outage",
		Channel: models.ChannelEmail,
		Body:    "Device down.",
	}))
	assert.Len(t, templates.templates, 1)
}

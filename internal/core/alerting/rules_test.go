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

func validRule() *models.AlertRule {
	return &models.AlertRule{
		Name:       "packet loss threshold",
		MetricType: models.MetricTypePacketLoss,
		Operator:   models.OperatorGT,
		Threshold:  5,
		Severity:   models.SeverityWarning,
	}
}

func TestRuleService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.AlertRule)
	}{
		{name: "missing name", mutate: func(r *models.AlertRule) { r.Name = "" }},
		{name: "missing metric type", mutate: func(r *models.AlertRule) { r.MetricType = "" }},
		{name: "unknown operator", mutate: func(r *models.AlertRule) { r.Operator = "~" }},
		{name: "unknown severity", mutate: func(r *models.AlertRule) { r.Severity = "urgent" }},
		{name: "negative duration", mutate: func(r *models.AlertRule) { r.DurationSeconds = -60 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := &fakeRuleRepo{}
			service := NewRuleService(nil, &database.Repositories{Rules: rules}, testLogger())

			rule := validRule()
			tt.mutate(rule)

			err := service.Create(context.Background(), rule)
			require.Error(t, err)
			assert.True(t, apperrors.IsAppError(err))
			assert.Empty(t, rules.rules)
		})
	}
}

func TestRuleService_CreateActivatesRule(t *testing.T) {
	rules := &fakeRuleRepo{}
	service := NewRuleService(nil, &database.Repositories{Rules: rules}, testLogger())

	rule := validRule()
	require.NoError(t, service.Create(context.Background(), rule))
	require.Len(t, rules.rules, 1)
	assert.True(t, rules.rules[0].IsActive)
}

func TestRuleService_BulkSetActiveRequiresIDs(t *testing.T) {
	service := NewRuleService(nil, &database.Repositories{Rules: &fakeRuleRepo{}}, testLogger())

	_, err := service.BulkSetActive(context.Background(), nil, true)
	assert.True(t, apperrors.IsValidation(err))
}

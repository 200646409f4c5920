package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

func newSettingsService(settings *fakeSettingRepo) (*SettingsService, *SettingsResolver) {
	log := testLogger()
	resolver := NewSettingsResolver(config.AlertingConfig{}, settings, log)
	return NewSettingsService(&database.Repositories{Settings: settings}, resolver, log), resolver
}

func TestSettingsService_SetValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		valid bool
	}{
		{name: "toggle true", key: models.SettingNotificationsEnabled, value: "true", valid: true},
		{name: "toggle garbage", key: models.SettingNotificationsEnabled, value: "maybe", valid: false},
		{name: "known channel", key: models.SettingDefaultChannel, value: "whatsapp", valid: true},
		{name: "unknown channel", key: models.SettingDefaultChannel, value: "pigeon", valid: false},
		{name: "delay minutes", key: models.SettingDefaultDelayMinutes, value: "15", valid: true},
		{name: "negative delay", key: models.SettingDefaultDelayMinutes, value: "-1", valid: false},
		{name: "free-form recipient", key: models.SettingDefaultRecipient, value: "noc@example.net", valid: true},
		{name: "unknown key", key: "favourite_colour", value: "blue", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &fakeSettingRepo{}
			service, _ := newSettingsService(settings)

			err := service.Set(context.Background(), tt.key, tt.value)
			if tt.valid {
				require.NoError(t, err)
				require.Len(t, settings.rows, 1)
				assert.Equal(t, tt.value, settings.rows[0].Value)
			} else {
				require.Error(t, err)
				assert.True(t, apperrors.IsAppError(err))
				assert.Empty(t, settings.rows)
			}
		})
	}
}

func TestSettingsService_SetInvalidatesResolverCache(t *testing.T) {
	settings := &fakeSettingRepo{}
	service, resolver := newSettingsService(settings)
	ctx := context.Background()

	defaults, err := resolver.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, defaults.Recipient)

	require.NoError(t, service.Set(ctx, models.SettingDefaultRecipient, "noc@example.net"))

	defaults, err = resolver.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "noc@example.net", defaults.Recipient)
}

package alerting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

func TestSettingsResolver_BuiltInDefaults(t *testing.T) {
	resolver := NewSettingsResolver(config.AlertingConfig{}, &fakeSettingRepo{}, testLogger())

	defaults, err := resolver.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, defaults.NotificationsEnabled)
	assert.Equal(t, models.ChannelEmail, defaults.Channel)
	assert.Empty(t, defaults.Recipient)
	assert.Zero(t, defaults.DelayMinutes)
}

func TestSettingsResolver_StoredRows(t *testing.T) {
	settings := &fakeSettingRepo{rows: []*models.Setting{
		{Key: models.SettingNotificationsEnabled, Value: "false"},
		{Key: models.SettingDefaultChannel, Value: "sms"},
		{Key: models.SettingDefaultRecipient, Value: "noc@example.net"},
		{Key: models.SettingDefaultRotationID, Value: "rotation-1"},
		{Key: models.SettingDefaultDelayMinutes, Value: "10"},
	}}
	resolver := NewSettingsResolver(config.AlertingConfig{}, settings, testLogger())

	defaults, err := resolver.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, defaults.NotificationsEnabled)
	assert.Equal(t, models.ChannelSMS, defaults.Channel)
	assert.Equal(t, "noc@example.net", defaults.Recipient)
	assert.Equal(t, "rotation-1", defaults.RotationID)
	assert.Equal(t, 10, defaults.DelayMinutes)
}

func TestSettingsResolver_MalformedStoredValuesIgnored(t *testing.T) {
	settings := &fakeSettingRepo{rows: []*models.Setting{
		{Key: models.SettingNotificationsEnabled, Value: "maybe"},
		{Key: models.SettingDefaultChannel, Value: "pigeon"},
		{Key: models.SettingDefaultDelayMinutes, Value: "-3"},
	}}
	resolver := NewSettingsResolver(config.AlertingConfig{}, settings, testLogger())

	defaults, err := resolver.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, defaults.NotificationsEnabled)
	assert.Equal(t, models.ChannelEmail, defaults.Channel)
	assert.Zero(t, defaults.DelayMinutes)
}

func TestSettingsResolver_ConfigOverridesStoredRows(t *testing.T) {
	enabled := true
	delay := 5
	cfg := config.AlertingConfig{
		NotificationsEnabled: &enabled,
		DefaultChannel:       "push",
		DefaultRecipient:     "override@example.net",
		DefaultDelayMinutes:  &delay,
	}
	settings := &fakeSettingRepo{rows: []*models.Setting{
		{Key: models.SettingNotificationsEnabled, Value: "false"},
		{Key: models.SettingDefaultChannel, Value: "sms"},
		{Key: models.SettingDefaultRecipient, Value: "stored@example.net"},
		{Key: models.SettingDefaultDelayMinutes, Value: "30"},
	}}
	resolver := NewSettingsResolver(cfg, settings, testLogger())

	defaults, err := resolver.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, defaults.NotificationsEnabled)
	assert.Equal(t, models.ChannelPush, defaults.Channel)
	assert.Equal(t, "override@example.net", defaults.Recipient)
	assert.Equal(t, 5, defaults.DelayMinutes)
}

func TestSettingsResolver_CachesUntilInvalidated(t *testing.T) {
	settings := &fakeSettingRepo{rows: []*models.Setting{
		{Key: models.SettingDefaultRecipient, Value: "before@example.net"},
	}}
	resolver := NewSettingsResolver(config.AlertingConfig{}, settings, testLogger())
	ctx := context.Background()

	defaults, err := resolver.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "before@example.net", defaults.Recipient)

	require.NoError(t, settings.Set(ctx, models.SettingDefaultRecipient, "after@example.net"))

	// Still inside the refresh window, so the cached snapshot is served
	defaults, err = resolver.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "before@example.net", defaults.Recipient)

	resolver.Invalidate()

	defaults, err = resolver.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "after@example.net", defaults.Recipient)
}

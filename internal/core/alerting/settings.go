package alerting

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// DispatchDefaults are the resolved escalation knobs for one dispatch.
// Precedence per knob: config/env override, then stored setting row, then
// the built-in default.
type DispatchDefaults struct {
	NotificationsEnabled bool
	Channel              models.NotificationChannel
	Recipient            string
	TemplateID           string
	RotationID           string
	DelayMinutes         int
}

// SettingsResolver reads the stored escalation settings with a bounded
// process-wide cache. Stored rows change rarely; dispatches within the
// refresh window reuse the cached snapshot.
type SettingsResolver struct {
	cfg      config.AlertingConfig
	settings repositories.SettingRepository
	log      *logrus.Logger

	mu        sync.Mutex
	cached    *DispatchDefaults
	fetchedAt time.Time
}

// NewSettingsResolver creates a settings resolver caching for the config's
// settings_refresh interval
func NewSettingsResolver(cfg config.AlertingConfig, settings repositories.SettingRepository, log *logrus.Logger) *SettingsResolver {
	return &SettingsResolver{cfg: cfg, settings: settings, log: log}
}

// Load returns the effective dispatch defaults
func (r *SettingsResolver) Load(ctx context.Context) (DispatchDefaults, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.fetchedAt) < r.cfg.SettingsRefreshInterval() {
		return *r.cached, nil
	}

	defaults := DispatchDefaults{
		NotificationsEnabled: true,
		Channel:              models.ChannelEmail,
	}

	rows, err := r.settings.GetAll(ctx)
	if err != nil {
		return DispatchDefaults{}, err
	}
	for _, row := range rows {
		r.applyStored(&defaults, row)
	}
	r.applyOverrides(&defaults)

	r.cached = &defaults
	r.fetchedAt = time.Now()

	return defaults, nil
}

// Invalidate drops the cached snapshot so the next dispatch rereads the
// stored rows
func (r *SettingsResolver) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func (r *SettingsResolver) applyStored(defaults *DispatchDefaults, row *models.Setting) {
	switch row.Key {
	case models.SettingNotificationsEnabled:
		enabled, err := strconv.ParseBool(row.Value)
		if err != nil {
			r.log.WithField("value", row.Value).Warn("Ignoring malformed notifications toggle setting")
			return
		}
		defaults.NotificationsEnabled = enabled
	case models.SettingDefaultChannel:
		channel, err := models.ParseChannel(row.Value)
		if err != nil {
			r.log.WithField("value", row.Value).Warn("Ignoring malformed default channel setting")
			return
		}
		defaults.Channel = channel
	case models.SettingDefaultRecipient:
		defaults.Recipient = row.Value
	case models.SettingDefaultTemplateID:
		defaults.TemplateID = row.Value
	case models.SettingDefaultRotationID:
		defaults.RotationID = row.Value
	case models.SettingDefaultDelayMinutes:
		minutes, err := strconv.Atoi(row.Value)
		if err != nil || minutes < 0 {
			r.log.WithField("value", row.Value).Warn("Ignoring malformed default delay setting")
			return
		}
		defaults.DelayMinutes = minutes
	}
}

func (r *SettingsResolver) applyOverrides(defaults *DispatchDefaults) {
	if r.cfg.NotificationsEnabled != nil {
		defaults.NotificationsEnabled = *r.cfg.NotificationsEnabled
	}
	if r.cfg.DefaultChannel != "" {
		if channel, err := models.ParseChannel(r.cfg.DefaultChannel); err == nil {
			defaults.Channel = channel
		} else {
			r.log.WithField("value", r.cfg.DefaultChannel).Warn("Ignoring malformed default channel override")
		}
	}
	if r.cfg.DefaultRecipient != "" {
		defaults.Recipient = r.cfg.DefaultRecipient
	}
	if r.cfg.DefaultTemplateID != "" {
		defaults.TemplateID = r.cfg.DefaultTemplateID
	}
	if r.cfg.DefaultRotationID != "" {
		defaults.RotationID = r.cfg.DefaultRotationID
	}
	if r.cfg.DefaultDelayMinutes != nil && *r.cfg.DefaultDelayMinutes >= 0 {
		defaults.DelayMinutes = *r.cfg.DefaultDelayMinutes
	}
}

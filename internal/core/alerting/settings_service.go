package alerting

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// SettingsService is the operator surface for the stored escalation
// settings. Writes invalidate the resolver cache so the next dispatch sees
// the new value.
type SettingsService struct {
	repos    *database.Repositories
	resolver *SettingsResolver
	log      *logrus.Logger
}

// NewSettingsService creates the settings service
func NewSettingsService(repos *database.Repositories, resolver *SettingsResolver, log *logrus.Logger) *SettingsService {
	return &SettingsService{repos: repos, resolver: resolver, log: log}
}

// List returns all stored settings
func (s *SettingsService) List(ctx context.Context) ([]*models.Setting, error) {
	return s.repos.Settings.GetAll(ctx)
}

// Set validates and stores one setting value
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if err := s.validate(key, value); err != nil {
		return err
	}
	if err := s.repos.Settings.Set(ctx, key, value); err != nil {
		return err
	}
	s.resolver.Invalidate()
	s.log.WithField("key", key).Info("Setting updated")
	return nil
}

func (s *SettingsService) validate(key, value string) error {
	switch key {
	case models.SettingNotificationsEnabled:
		if _, err := strconv.ParseBool(value); err != nil {
			return apperrors.NewInvalidEnum(key, value)
		}
	case models.SettingDefaultChannel:
		if _, err := models.ParseChannel(value); err != nil {
			return err
		}
	case models.SettingDefaultDelayMinutes:
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < 0 {
			return apperrors.NewValidation("default_delay_minutes must be a non-negative integer")
		}
	case models.SettingDefaultRecipient, models.SettingDefaultTemplateID, models.SettingDefaultRotationID:
	default:
		return apperrors.NewInvalidEnum("key", key)
	}
	return nil
}

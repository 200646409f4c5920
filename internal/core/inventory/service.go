package inventory

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

// Service manages the monitored device inventory and its grouping
// dimensions. Devices are soft-deactivated so alert history keeps resolving.
type Service struct {
	repos *database.Repositories
	log   *logrus.Logger
}

// NewService creates the inventory service
func NewService(repos *database.Repositories, log *logrus.Logger) *Service {
	return &Service{repos: repos, log: log}
}

// CreateDevice validates and persists a new device
func (s *Service) CreateDevice(ctx context.Context, device *models.Device) error {
	if device.Name == "" {
		return apperrors.NewValidation("device name is required")
	}
	device.IsActive = true
	return s.repos.Devices.Create(ctx, device)
}

// GetDevice returns one device by id
func (s *Service) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	return s.repos.Devices.GetByID(ctx, id)
}

// ListDevices returns devices, optionally including deactivated ones
func (s *Service) ListDevices(ctx context.Context, includeInactive bool) ([]*models.Device, error) {
	return s.repos.Devices.List(ctx, includeInactive)
}

// UpdateDevice validates and persists device changes
func (s *Service) UpdateDevice(ctx context.Context, device *models.Device) error {
	if device.Name == "" {
		return apperrors.NewValidation("device name is required")
	}
	return s.repos.Devices.Update(ctx, device)
}

// SetDeviceActive flips the device tombstone flag
func (s *Service) SetDeviceActive(ctx context.Context, id string, active bool) error {
	return s.repos.Devices.SetActive(ctx, id, active)
}

// CreatePopSite persists a new POP site
func (s *Service) CreatePopSite(ctx context.Context, site *models.PopSite) error {
	if site.Name == "" {
		return apperrors.NewValidation("pop site name is required")
	}
	return s.repos.Devices.CreatePopSite(ctx, site)
}

// ListPopSites returns all POP sites
func (s *Service) ListPopSites(ctx context.Context) ([]*models.PopSite, error) {
	return s.repos.Devices.ListPopSites(ctx)
}

// CreateArea persists a new coverage area
func (s *Service) CreateArea(ctx context.Context, area *models.Area) error {
	if area.Name == "" {
		return apperrors.NewValidation("area name is required")
	}
	return s.repos.Devices.CreateArea(ctx, area)
}

// ListAreas returns all coverage areas
func (s *Service) ListAreas(ctx context.Context) ([]*models.Area, error) {
	return s.repos.Devices.ListAreas(ctx)
}

// CreateFdh persists a new fiber distribution hub
func (s *Service) CreateFdh(ctx context.Context, fdh *models.Fdh) error {
	if fdh.Name == "" {
		return apperrors.NewValidation("fdh name is required")
	}
	return s.repos.Devices.CreateFdh(ctx, fdh)
}

// ListFdhs returns all fiber distribution hubs
func (s *Service) ListFdhs(ctx context.Context) ([]*models.Fdh, error) {
	return s.repos.Devices.ListFdhs(ctx)
}

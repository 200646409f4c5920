package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
	apperrors "github.com/michaelayoade/netops-backend-go/pkg/errors"
)

const deviceColumns = `id, name, pop_site_id, area_id, fdh_id, is_active, created_at, updated_at`

// DeviceRepository implements repositories.DeviceRepository
type DeviceRepository struct {
	db sqlx.ExtContext
}

// NewDeviceRepository creates a new DeviceRepository
func NewDeviceRepository(db sqlx.ExtContext) repositories.DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create persists a new device
func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	device.CreatedAt = now
	device.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO devices (` + deviceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		device.ID, device.Name, device.PopSiteID, device.AreaID, device.FdhID,
		device.IsActive, device.CreatedAt, device.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

// GetByID retrieves a device by id
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*models.Device, error) {
	query := r.db.Rebind(`SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`)

	device := &models.Device{}
	err := sqlx.GetContext(ctx, r.db, device, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("device", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return device, nil
}

// List returns devices, optionally including deactivated ones
func (r *DeviceRepository) List(ctx context.Context, includeInactive bool) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices`
	args := []interface{}{}
	if !includeInactive {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name ASC`

	var devices []*models.Device
	if err := sqlx.SelectContext(ctx, r.db, &devices, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return devices, nil
}

// Update persists device changes
func (r *DeviceRepository) Update(ctx context.Context, device *models.Device) error {
	device.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE devices
		SET name = ?, pop_site_id = ?, area_id = ?, fdh_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		device.Name, device.PopSiteID, device.AreaID, device.FdhID,
		device.IsActive, device.UpdatedAt, device.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("device", device.ID)
	}

	return nil
}

// SetActive flips the device tombstone flag
func (r *DeviceRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := r.db.Rebind(`UPDATE devices SET is_active = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set device active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("device", id)
	}

	return nil
}

// ListActiveWithGroups returns active devices joined with their grouping
// dimension names for the uptime report
func (r *DeviceRepository) ListActiveWithGroups(ctx context.Context) ([]*models.DeviceGroupRow, error) {
	query := r.db.Rebind(`
		SELECT d.id AS device_id, d.name AS device_name,
		       d.pop_site_id, p.name AS pop_site_name,
		       d.area_id, a.name AS area_name,
		       d.fdh_id, f.name AS fdh_name
		FROM devices d
		LEFT JOIN pop_sites p ON p.id = d.pop_site_id
		LEFT JOIN areas a ON a.id = d.area_id
		LEFT JOIN fdhs f ON f.id = d.fdh_id
		WHERE d.is_active = ?
		ORDER BY d.name ASC
	`)

	var rows []*models.DeviceGroupRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, true); err != nil {
		return nil, fmt.Errorf("failed to list devices with groups: %w", err)
	}

	return rows, nil
}

// CreatePopSite persists a new POP site
func (r *DeviceRepository) CreatePopSite(ctx context.Context, site *models.PopSite) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	site.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`INSERT INTO pop_sites (id, name, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, site.ID, site.Name, site.CreatedAt); err != nil {
		return fmt.Errorf("failed to create pop site: %w", err)
	}

	return nil
}

// ListPopSites returns all POP sites
func (r *DeviceRepository) ListPopSites(ctx context.Context) ([]*models.PopSite, error) {
	var sites []*models.PopSite
	if err := sqlx.SelectContext(ctx, r.db, &sites, `SELECT id, name, created_at FROM pop_sites ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list pop sites: %w", err)
	}
	return sites, nil
}

// CreateArea persists a new coverage area
func (r *DeviceRepository) CreateArea(ctx context.Context, area *models.Area) error {
	if area.ID == "" {
		area.ID = uuid.NewString()
	}
	area.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`INSERT INTO areas (id, name, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, area.ID, area.Name, area.CreatedAt); err != nil {
		return fmt.Errorf("failed to create area: %w", err)
	}

	return nil
}

// ListAreas returns all coverage areas
func (r *DeviceRepository) ListAreas(ctx context.Context) ([]*models.Area, error) {
	var areas []*models.Area
	if err := sqlx.SelectContext(ctx, r.db, &areas, `SELECT id, name, created_at FROM areas ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

// CreateFdh persists a new fiber distribution hub
func (r *DeviceRepository) CreateFdh(ctx context.Context, fdh *models.Fdh) error {
	if fdh.ID == "" {
		fdh.ID = uuid.NewString()
	}
	fdh.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`INSERT INTO fdhs (id, name, created_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, fdh.ID, fdh.Name, fdh.CreatedAt); err != nil {
		return fmt.Errorf("failed to create fdh: %w", err)
	}

	return nil
}

// ListFdhs returns all fiber distribution hubs
func (r *DeviceRepository) ListFdhs(ctx context.Context) ([]*models.Fdh, error) {
	var fdhs []*models.Fdh
	if err := sqlx.SelectContext(ctx, r.db, &fdhs, `SELECT id, name, created_at FROM fdhs ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("failed to list fdhs: %w", err)
	}
	return fdhs, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// SettingRepository implements repositories.SettingRepository
type SettingRepository struct {
	db sqlx.ExtContext
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db sqlx.ExtContext) repositories.SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns nil when the key has no stored value
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := r.db.Rebind(`SELECT key, value, updated_at FROM settings WHERE key = ?`)

	setting := &models.Setting{}
	err := sqlx.GetContext(ctx, r.db, setting, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return setting, nil
}

// Set upserts a setting value
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}

	return nil
}

// GetAll returns all stored settings
func (r *SettingRepository) GetAll(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	if err := sqlx.SelectContext(ctx, r.db, &settings, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

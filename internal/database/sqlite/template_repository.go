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

const templateColumns = `id, name, channel, subject, body, created_at, updated_at`

// TemplateRepository implements repositories.TemplateRepository
type TemplateRepository struct {
	db sqlx.ExtContext
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db sqlx.ExtContext) repositories.TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create persists a new notification template
func (r *TemplateRepository) Create(ctx context.Context, template *models.NotificationTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO notification_templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		template.ID, template.Name, template.Channel, template.Subject, template.Body,
		template.CreatedAt, template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by id
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*models.NotificationTemplate, error) {
	query := r.db.Rebind(`SELECT ` + templateColumns + ` FROM notification_templates WHERE id = ?`)

	template := &models.NotificationTemplate{}
	err := sqlx.GetContext(ctx, r.db, template, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("notification template", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

// List returns all templates
func (r *TemplateRepository) List(ctx context.Context) ([]*models.NotificationTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM notification_templates ORDER BY created_at DESC`

	var templates []*models.NotificationTemplate
	if err := sqlx.SelectContext(ctx, r.db, &templates, query); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

// Update persists template changes
func (r *TemplateRepository) Update(ctx context.Context, template *models.NotificationTemplate) error {
	template.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE notification_templates
		SET name = ?, channel = ?, subject = ?, body = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		template.Name, template.Channel, template.Subject, template.Body,
		template.UpdatedAt, template.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("notification template", template.ID)
	}

	return nil
}

// Delete removes a template
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM notification_templates WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("notification template", id)
	}

	return nil
}

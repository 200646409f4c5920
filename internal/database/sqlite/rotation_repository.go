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

const memberColumns = `id, rotation_id, name, contact, priority, last_used_at, is_active, created_at`

// RotationRepository implements repositories.RotationRepository
type RotationRepository struct {
	db sqlx.ExtContext
}

// NewRotationRepository creates a new RotationRepository
func NewRotationRepository(db sqlx.ExtContext) repositories.RotationRepository {
	return &RotationRepository{db: db}
}

// CreateRotation persists a new on-call rotation
func (r *RotationRepository) CreateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	if rotation.ID == "" {
		rotation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rotation.CreatedAt = now
	rotation.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO on_call_rotations (id, name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		rotation.ID, rotation.Name, rotation.IsActive, rotation.CreatedAt, rotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rotation: %w", err)
	}

	return nil
}

// GetRotation retrieves a rotation by id
func (r *RotationRepository) GetRotation(ctx context.Context, id string) (*models.OnCallRotation, error) {
	query := r.db.Rebind(`SELECT id, name, is_active, created_at, updated_at FROM on_call_rotations WHERE id = ?`)

	rotation := &models.OnCallRotation{}
	err := sqlx.GetContext(ctx, r.db, rotation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("rotation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation: %w", err)
	}

	return rotation, nil
}

// ListRotations returns all rotations
func (r *RotationRepository) ListRotations(ctx context.Context) ([]*models.OnCallRotation, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM on_call_rotations ORDER BY created_at DESC`

	var rotations []*models.OnCallRotation
	if err := sqlx.SelectContext(ctx, r.db, &rotations, query); err != nil {
		return nil, fmt.Errorf("failed to list rotations: %w", err)
	}

	return rotations, nil
}

// UpdateRotation persists rotation changes
func (r *RotationRepository) UpdateRotation(ctx context.Context, rotation *models.OnCallRotation) error {
	rotation.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`UPDATE on_call_rotations SET name = ?, is_active = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, rotation.Name, rotation.IsActive, rotation.UpdatedAt, rotation.ID)
	if err != nil {
		return fmt.Errorf("failed to update rotation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("rotation", rotation.ID)
	}

	return nil
}

// CreateMember persists a new rotation member
func (r *RotationRepository) CreateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	member.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO on_call_rotation_members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		member.ID, member.RotationID, member.Name, member.Contact, member.Priority,
		member.LastUsedAt, member.IsActive, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rotation member: %w", err)
	}

	return nil
}

// GetMember retrieves a member by id
func (r *RotationRepository) GetMember(ctx context.Context, id string) (*models.OnCallRotationMember, error) {
	query := r.db.Rebind(`SELECT ` + memberColumns + ` FROM on_call_rotation_members WHERE id = ?`)

	member := &models.OnCallRotationMember{}
	err := sqlx.GetContext(ctx, r.db, member, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("rotation member", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation member: %w", err)
	}

	return member, nil
}

// ListMembers returns all members of a rotation
func (r *RotationRepository) ListMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error) {
	query := r.db.Rebind(`SELECT ` + memberColumns + ` FROM on_call_rotation_members WHERE rotation_id = ? ORDER BY priority ASC`)

	var members []*models.OnCallRotationMember
	if err := sqlx.SelectContext(ctx, r.db, &members, query, rotationID); err != nil {
		return nil, fmt.Errorf("failed to list rotation members: %w", err)
	}

	return members, nil
}

// UpdateMember persists member changes
func (r *RotationRepository) UpdateMember(ctx context.Context, member *models.OnCallRotationMember) error {
	query := r.db.Rebind(`
		UPDATE on_call_rotation_members
		SET name = ?, contact = ?, priority = ?, is_active = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		member.Name, member.Contact, member.Priority, member.IsActive, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rotation member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("rotation member", member.ID)
	}

	return nil
}

// ListActiveMembers returns active members in round-robin order: never
// used first, then least-recently-used, with priority breaking ties
func (r *RotationRepository) ListActiveMembers(ctx context.Context, rotationID string) ([]*models.OnCallRotationMember, error) {
	query := r.db.Rebind(`
		SELECT ` + memberColumns + `
		FROM on_call_rotation_members
		WHERE rotation_id = ? AND is_active = ?
		ORDER BY last_used_at IS NOT NULL, last_used_at ASC, priority ASC
	`)

	var members []*models.OnCallRotationMember
	if err := sqlx.SelectContext(ctx, r.db, &members, query, rotationID, true); err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}

	return members, nil
}

// MarkUsed records the round-robin selection of a member
func (r *RotationRepository) MarkUsed(ctx context.Context, memberID string, usedAt time.Time) error {
	query := r.db.Rebind(`UPDATE on_call_rotation_members SET last_used_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, usedAt.UTC(), memberID)
	if err != nil {
		return fmt.Errorf("failed to mark member used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("rotation member", memberID)
	}

	return nil
}

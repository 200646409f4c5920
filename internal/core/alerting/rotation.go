package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// RotationSelector picks the next on-call contact from a rotation. Selection
// is least-recently-used first with never-used members ahead of everyone,
// tie-broken by lowest priority, so consecutive picks cycle through the
// whole rotation instead of hammering the lowest priority band. Selecting a
// member stamps its last_used_at, so the read-then-write must share the
// caller's transaction.
type RotationSelector struct {
	rotations repositories.RotationRepository
}

// NewRotationSelector creates a rotation selector
func NewRotationSelector(rotations repositories.RotationRepository) *RotationSelector {
	return &RotationSelector{rotations: rotations}
}

// Next returns the next active member and marks it used, or nil when the
// rotation has no active members
func (s *RotationSelector) Next(ctx context.Context, rotationID string) (*models.OnCallRotationMember, error) {
	members, err := s.rotations.ListActiveMembers(ctx, rotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rotation members: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	member := members[0]
	now := time.Now().UTC()
	if err := s.rotations.MarkUsed(ctx, member.ID, now); err != nil {
		return nil, fmt.Errorf("failed to mark rotation member used: %w", err)
	}
	member.LastUsedAt = &now

	return member, nil
}

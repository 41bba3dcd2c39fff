package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/errors"
)

// loadParticipantSession hides sessions from non-participants.
func loadParticipantSession(ctx context.Context, repo session.Repository, sessionID, userID string, isAdmin bool) (*session.Session, error) {
	s, err := repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil || (!isAdmin && !s.IsParticipant(userID)) {
		return nil, errors.NewNotFoundError("session not found")
	}
	return s, nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// UpdateNotesUseCase stores the coach's private notes on a session.
type UpdateNotesUseCase struct {
	sessionRepo session.Repository
	logger      logger.Interface
}

func NewUpdateNotesUseCase(sessionRepo session.Repository, logger logger.Interface) *UpdateNotesUseCase {
	return &UpdateNotesUseCase{sessionRepo: sessionRepo, logger: logger}
}

func (uc *UpdateNotesUseCase) Execute(ctx context.Context, sessionID, userID, notes string) (*dto.SessionDTO, error) {
	uc.logger.Infow("executing update session notes use case", "session_id", sessionID, "user_id", userID)

	s, err := loadParticipantSession(ctx, uc.sessionRepo, sessionID, userID, false)
	if err != nil {
		return nil, err
	}
	if !s.IsCoach(userID) {
		return nil, errors.NewForbiddenError("only the coach can edit session notes")
	}
	if err := s.UpdateNotes(notes); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.sessionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to update session notes: %w", err)
	}
	return dto.ToSessionDTO(s, userID, false), nil
}

package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type SubmitFeedbackCommand struct {
	SessionID string
	UserID    string
	Rating    int
	Feedback  string
}

// SubmitFeedbackUseCase records the mentee's rating of a completed session.
type SubmitFeedbackUseCase struct {
	sessionRepo session.Repository
	logger      logger.Interface
}

func NewSubmitFeedbackUseCase(sessionRepo session.Repository, logger logger.Interface) *SubmitFeedbackUseCase {
	return &SubmitFeedbackUseCase{sessionRepo: sessionRepo, logger: logger}
}

func (uc *SubmitFeedbackUseCase) Execute(ctx context.Context, cmd SubmitFeedbackCommand) (*dto.SessionDTO, error) {
	uc.logger.Infow("executing submit session feedback use case", "session_id", cmd.SessionID, "user_id", cmd.UserID)

	s, err := loadParticipantSession(ctx, uc.sessionRepo, cmd.SessionID, cmd.UserID, false)
	if err != nil {
		return nil, err
	}
	if s.MenteeID() != cmd.UserID {
		return nil, errors.NewForbiddenError("only the mentee can rate a session")
	}
	if err := s.SubmitFeedback(cmd.Rating, cmd.Feedback); err != nil {
		if stderrors.Is(err, session.ErrNotCompleted) || stderrors.Is(err, session.ErrFeedbackGiven) {
			return nil, errors.NewConflictError(err.Error())
		}
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.sessionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	uc.logger.Infow("session feedback recorded", "session_id", s.ID(), "rating", cmd.Rating)
	return dto.ToSessionDTO(s, cmd.UserID, false), nil
}

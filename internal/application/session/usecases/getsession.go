package usecases

import (
	"context"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetSessionUseCase struct {
	sessionRepo session.Repository
	logger      logger.Interface
}

func NewGetSessionUseCase(sessionRepo session.Repository, logger logger.Interface) *GetSessionUseCase {
	return &GetSessionUseCase{sessionRepo: sessionRepo, logger: logger}
}

func (uc *GetSessionUseCase) Execute(ctx context.Context, sessionID, userID string, isAdmin bool) (*dto.SessionDTO, error) {
	s, err := loadParticipantSession(ctx, uc.sessionRepo, sessionID, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	return dto.ToSessionDTO(s, userID, isAdmin), nil
}

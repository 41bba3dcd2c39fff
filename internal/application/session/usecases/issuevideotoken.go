package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/session/dto"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/infrastructure/zoom"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// VideoSigner issues Zoom Video SDK tokens.
type VideoSigner interface {
	Sign(req zoom.TokenRequest) (*zoom.Token, error)
}

// IssueVideoTokenUseCase hands a participant a token to join the session's
// video room. The coach joins as host.
type IssueVideoTokenUseCase struct {
	sessionRepo session.Repository
	signer      VideoSigner
	lead        time.Duration
	now         func() time.Time
	logger      logger.Interface
}

func NewIssueVideoTokenUseCase(sessionRepo session.Repository, signer VideoSigner, lead time.Duration, logger logger.Interface) *IssueVideoTokenUseCase {
	if lead <= 0 {
		lead = 10 * time.Minute
	}
	return &IssueVideoTokenUseCase{
		sessionRepo: sessionRepo,
		signer:      signer,
		lead:        lead,
		now:         biztime.NowUTC,
		logger:      logger,
	}
}

func (uc *IssueVideoTokenUseCase) Execute(ctx context.Context, sessionID, userID string) (*dto.VideoTokenDTO, error) {
	s, err := loadParticipantSession(ctx, uc.sessionRepo, sessionID, userID, false)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if !s.VideoWindowOpen(now, uc.lead) {
		return nil, errors.NewConflictError(session.ErrVideoWindowClosed.Error())
	}

	tok, err := uc.signer.Sign(zoom.TokenRequest{
		Topic:        s.ID(),
		Host:         s.IsCoach(userID),
		UserIdentity: userID,
		NotAfter:     s.ScheduledEnd(),
	})
	if err != nil {
		uc.logger.Errorw("failed to sign video token", "session_id", s.ID(), "error", err)
		return nil, fmt.Errorf("failed to issue video token: %w", err)
	}

	if s.Status() == session.StatusScheduled && !now.Before(s.ScheduledStart()) {
		if err := s.TransitionTo(session.StatusInProgress); err == nil {
			if err := uc.sessionRepo.Update(ctx, s); err != nil {
				uc.logger.Warnw("failed to mark session in progress", "session_id", s.ID(), "error", err)
			}
		}
	}

	uc.logger.Infow("video token issued", "session_id", s.ID(), "user_id", userID, "role_type", tok.RoleType)
	return &dto.VideoTokenDTO{
		Token:     tok.Token,
		Topic:     tok.Topic,
		RoleType:  tok.RoleType,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}

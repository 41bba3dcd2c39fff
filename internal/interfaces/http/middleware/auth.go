package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/infrastructure/auth"
	"github.com/coachhub/coachhub/internal/shared/constants"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// UserResolver finds the local user behind a Clerk identity.
type UserResolver interface {
	GetByClerkID(ctx context.Context, clerkUserID string) (*user.User, error)
}

type AuthMiddleware struct {
	verifier   auth.Verifier
	users      UserResolver
	identities *auth.IdentityCache
	logger     logger.Interface
}

func NewAuthMiddleware(verifier auth.Verifier, users UserResolver, identities *auth.IdentityCache, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		users:      users,
		identities: identities,
		logger:     logger,
	}
}

// RequireAuth verifies the Clerk session token and sets user_id and
// user_role in the context. Tokens whose Clerk user has no local row are
// rejected.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing session token")
			c.Abort()
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			m.logger.Warnw("failed to verify session token", "error", err, "client_ip", c.ClientIP())
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		resolved, err := m.resolve(c.Request.Context(), identity.ClerkUserID)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, resolved.UserID)
		c.Set(constants.ContextKeyUserRole, resolved.Role.String())
		c.Set(constants.ContextKeyClerkUserID, identity.ClerkUserID)
		c.Set(constants.ContextKeySessionID, identity.SessionID)

		c.Next()
	}
}

func (m *AuthMiddleware) resolve(ctx context.Context, clerkUserID string) (auth.ResolvedIdentity, error) {
	if cached, ok := m.identities.Get(clerkUserID); ok {
		return cached, nil
	}

	u, err := m.users.GetByClerkID(ctx, clerkUserID)
	if err != nil {
		m.logger.Errorw("failed to resolve user", "clerk_user_id", clerkUserID, "error", err)
		return auth.ResolvedIdentity{}, errors.NewInternalError("failed to resolve user")
	}
	if u == nil || u.IsDeleted() {
		return auth.ResolvedIdentity{}, errors.NewUnauthorizedError("user is not registered")
	}

	resolved := auth.ResolvedIdentity{UserID: u.ID(), Role: u.Role()}
	m.identities.Add(clerkUserID, resolved)
	return resolved, nil
}

// requestToken reads the bearer header or the __session cookie. Browsers
// cannot set headers on a websocket handshake, so upgrades may also pass
// the token as a query parameter.
func requestToken(c *gin.Context) string {
	if token := utils.SessionToken(c); token != "" {
		return token
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

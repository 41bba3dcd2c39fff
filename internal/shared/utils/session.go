package utils

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// SessionToken returns the Clerk session token from the Authorization header,
// falling back to the __session cookie used by same-site browser requests.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader(constants.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	token, err := c.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// CurrentUserID returns the authenticated user's ID set by the auth middleware.
func CurrentUserID(c *gin.Context) (string, bool) {
	v := c.GetString(constants.ContextKeyUserID)
	return v, v != ""
}

// CurrentUserRole returns the authenticated user's role set by the auth middleware.
func CurrentUserRole(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserRole)
}

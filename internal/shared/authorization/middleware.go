package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/shared/constants"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// RequireRole aborts with 403 unless the authenticated user holds one of roles.
// Must run after the auth middleware.
func RequireRole(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := UserRole(c.GetString(constants.ContextKeyUserRole))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// RequireCoach admits coaches and admins.
func RequireCoach() gin.HandlerFunc {
	return RequireRole(RoleCoach, RoleAdmin)
}

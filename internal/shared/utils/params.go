package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// ParseIDParam reads a ULID path parameter and returns it in canonical form.
// entityName is used in error messages (e.g., "booking", "proposal").
func ParseIDParam(c *gin.Context, paramName, entityName string) (string, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}

	parsed, err := id.Parse(raw)
	if err != nil {
		return "", errors.NewValidationError("invalid " + entityName + " ID format")
	}
	return parsed, nil
}

package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/id"
)

// ParseSIDParam reads a prefixed SID from a route parameter and validates its
// prefix. paramName is the gin route parameter name (usually "id"), prefix the
// expected SID prefix (e.g. id.PrefixNovel), and entityName feeds the error
// message ("novel", "chapter").
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}

	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}

	return sid, nil
}

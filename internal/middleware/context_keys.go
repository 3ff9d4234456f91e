package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the key used to store the authenticated user's ID.
	userIDKey = contextKey("userID")
	// companyIDKey is the key used to store the company the token is scoped to.
	companyIDKey = contextKey("companyID")
	// roleKey is the key used to store the authenticated user's role.
	roleKey = contextKey("role")
)

func fromRequestCtx(c *gin.Context, key contextKey) (string, bool) {
	val := c.Request.Context().Value(key)
	if val == nil {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return fromRequestCtx(c, userIDKey)
}

// GetCompanyIDFromContext retrieves the token's company scope from the Gin context.
// All repository access is bounded by this ID.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	return fromRequestCtx(c, companyIDKey)
}

// GetRoleFromContext retrieves the authenticated user's role from the Gin context.
func GetRoleFromContext(c *gin.Context) (string, bool) {
	return fromRequestCtx(c, roleKey)
}

// GetRoleFromCtx retrieves the authenticated user's role from a standard
// context. Returns the empty string when absent.
func GetRoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

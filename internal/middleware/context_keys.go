package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey        = contextKey("userID")
	maxSecurityLevel = contextKey("maxSecurityLevel")
	tenantsKey       = contextKey("tenants")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetMaxSecurityLevel returns the caller's clearance. Callers without the claim see only unrestricted accounts.
func GetMaxSecurityLevel(c *gin.Context) int {
	level, ok := c.Request.Context().Value(maxSecurityLevel).(int)
	if !ok {
		return 0
	}
	return level
}

// WithIdentity stores the authenticated user and clearance on ctx.
func WithIdentity(ctx context.Context, userID string, level int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, maxSecurityLevel, level)
}

// WithTenants stores the tenants the caller may act in.
func WithTenants(ctx context.Context, tenants []string) context.Context {
	return context.WithValue(ctx, tenantsKey, tenants)
}

// GetTenantsFromContext returns the tenants granted by the caller's token.
func GetTenantsFromContext(c *gin.Context) []string {
	tenants, _ := c.Request.Context().Value(tenantsKey).([]string)
	return tenants
}

package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// RequireTenantAccess rejects requests whose :tenant_id is not among the tenants of the
// caller's token. It must run after AuthMiddleware.
func RequireTenantAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param("tenant_id")
		if tenantID != "" && slices.Contains(GetTenantsFromContext(c), tenantID) {
			c.Next()
			return
		}

		userID, _ := GetUserIDFromContext(c)
		GetLoggerFromCtx(c.Request.Context()).Warn("Tenant access denied",
			slog.String("tenant_id", tenantID),
			slog.String("user_id", userID))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperrors.ErrForbidden.Error() + ": no access to tenant " + tenantID})
	}
}

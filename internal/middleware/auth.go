package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/auth"
	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
	"assesshub_backend/pkg/apperrors"
)

const (
	ContextUserID    = "user_id"
	ContextCompanyID = "company_id"
	ContextUserRole  = "user_role"
	ContextClaims    = "claims"
)

// AuthMiddleware validates the Bearer token and stores claims on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextCompanyID, claims.CompanyID)
		c.Set(ContextUserRole, string(claims.Role))
		c.Set(ContextClaims, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRoles rejects requests whose authenticated role is not listed.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		role := models.UserRole(c.GetString(ContextUserRole))
		if !allowed[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CompanyScope returns the caller's tenant. Super admins get an empty scope,
// which repositories interpret as unscoped.
func CompanyScope(c *gin.Context) string {
	if models.UserRole(c.GetString(ContextUserRole)) == models.UserRoleSuperAdmin {
		return ""
	}
	return c.GetString(ContextCompanyID)
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"orghub-server/internal/config"
	"orghub-server/internal/models"
	"orghub-server/internal/policy"
	"orghub-server/internal/utils"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		// Set user information in context for downstream handlers
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			utils.InternalServerError(c, "Caller not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if caller.Role == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCaller builds the explicit caller identity handlers pass to the
// policy package.
func GetCaller(c *gin.Context) (policy.Caller, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return policy.Caller{}, false
	}
	idStr, ok := userID.(string)
	if !ok {
		return policy.Caller{}, false
	}

	userRole, exists := c.Get("userRole")
	if !exists {
		return policy.Caller{}, false
	}
	role, ok := userRole.(models.Role)
	if !ok {
		return policy.Caller{}, false
	}

	return policy.Caller{ID: idStr, Role: role}, true
}

package middleware

import (
	"strings"

	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys do AuthMiddleware set
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware xác thực Bearer token và đưa user_id, role vào context
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. "Authorization: Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 2. Verify chữ ký + exp
		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

package middleware

import (
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const RoleAdmin = "admin"

// AdminMiddleware phải chạy sau AuthMiddleware (cần role trong context)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		if s, _ := role.(string); s != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		c.Next()
	}
}

// api/middleware/role_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/handin-dev/handin-backend/internal/auth"
	"github.com/handin-dev/handin-backend/internal/domain"
)

// RequireAdmin gates a route group to admin accounts. It must be mounted
// after AuthMiddleware, which stores the resolved user in the context.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		user, ok := value.(*domain.User)
		if !exists || !ok {
			_ = c.Error(auth.ErrUnauthorized)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		if user.Role != domain.RoleAdmin {
			customLog.Printf("RequireAdmin: Account %q with role %q denied", user.Username, user.Role)
			_ = c.Error(auth.ErrForbidden)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}

		c.Next()
	}
}

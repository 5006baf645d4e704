// api/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/auth"
	"github.com/handin-dev/handin-backend/internal/domain"
	"github.com/handin-dev/handin-backend/internal/logger"
	"github.com/handin-dev/handin-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// ContextUserKey is the gin context key under which AuthMiddleware stores
// the authenticated *domain.User.
const ContextUserKey = "currentUser"

// CurrentUser returns the authenticated account set by AuthMiddleware.
// Must only be called from handlers mounted behind it.
func CurrentUser(c *gin.Context) *domain.User {
	return c.MustGet(ContextUserKey).(*domain.User)
}

// AuthMiddleware creates a gin middleware for checking JWT authentication.
// The token subject is resolved against the user store on every request, so
// deleted or deactivated accounts lose access as soon as their state
// changes, not when their token expires.
func AuthMiddleware(users storage.UserStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			err := errors.New("authorization header required")
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			err := errors.New("authorization header format must be Bearer {token}")
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		tokenString := parts[1]

		// Validate JWT using the internal auth function
		username, err := auth.ValidateJWT(tokenString, cfg.JWTSecret, cfg.JWTAlgorithm)
		if err != nil {
			customLog.Printf("AuthMiddleware: Token validation failed: %v", err)
			errMsg := "Invalid token"
			switch {
			case errors.Is(err, auth.ErrTokenMalformed):
				errMsg = err.Error()
			case errors.Is(err, auth.ErrTokenExpired):
				errMsg = err.Error()
			}

			_ = c.Error(err)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		// Resolve the subject to a stored account.
		user, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			customLog.Warnf("AuthMiddleware: Could not resolve token subject %q: %v", username, err)
			_ = c.Error(auth.ErrUnauthorized)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}
		if !user.IsActive {
			_ = c.Error(auth.ErrInactiveUser)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Inactive user"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

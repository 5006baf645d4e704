// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10" // Import validator for binding errors

	"github.com/handin-dev/handin-backend/internal/auth"    // Import internal auth errors
	"github.com/handin-dev/handin-backend/internal/storage" // Import internal storage errors
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers and middleware attach errors via c.Error; whatever reaches the
// end of the chain without a written response is mapped here.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request using subsequent handlers
		c.Next()

		// Check if any errors were attached during handler execution
		if len(c.Errors) == 0 {
			return // No errors, nothing to do
		}

		// We only handle the last error for the response.
		err := c.Errors.Last().Err

		// Log the error internally for debugging purposes
		log.Printf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		// --- Map error to HTTP status code and user message ---
		var statusCode int
		var userMessage string

		// Check for specific error types we defined
		if errors.Is(err, storage.ErrUserNotFound) ||
			errors.Is(err, storage.ErrAssignmentNotFound) {
			statusCode = http.StatusNotFound
			userMessage = err.Error() // Use the error message directly for "Not Found" types
		} else if errors.Is(err, storage.ErrUsernameTaken) {
			// The registration contract reports duplicates as a plain bad
			// request, not a conflict.
			statusCode = http.StatusBadRequest
			userMessage = "Username already taken"
		} else if errors.Is(err, storage.ErrInvalidAssignmentID) {
			statusCode = http.StatusBadRequest
			userMessage = "Invalid assignment ID."
		} else if errors.Is(err, storage.ErrInvalidCredentials) {
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid username or password"
			c.Header("WWW-Authenticate", "Bearer")
		} else if errors.Is(err, auth.ErrTokenMalformed) ||
			errors.Is(err, auth.ErrTokenInvalid) ||
			errors.Is(err, auth.ErrTokenClaimsInvalid) ||
			errors.Is(err, auth.ErrUnexpectedSigningMethod) {
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid or malformed authentication token." // Generic message
			c.Header("WWW-Authenticate", "Bearer")
		} else if errors.Is(err, auth.ErrTokenExpired) {
			statusCode = http.StatusUnauthorized
			userMessage = "Authentication token has expired."
			c.Header("WWW-Authenticate", "Bearer")
		} else if errors.Is(err, auth.ErrUnauthorized) {
			statusCode = http.StatusUnauthorized
			userMessage = "Could not validate credentials"
			c.Header("WWW-Authenticate", "Bearer")
		} else if errors.Is(err, auth.ErrInactiveUser) {
			statusCode = http.StatusBadRequest
			userMessage = "Inactive user"
		} else if errors.Is(err, auth.ErrForbidden) {
			statusCode = http.StatusForbidden
			userMessage = "Admin privileges required"
		} else if validationErrs, ok := err.(validator.ValidationErrors); ok {
			// Handle validation errors from c.ShouldBindJSON
			statusCode = http.StatusBadRequest
			userMessage = "Validation failed. Please check your input."
			for _, fe := range validationErrs {
				log.Printf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
			}
		} else {
			// --- Default/Fallback for unhandled errors ---
			statusCode = http.StatusInternalServerError
			userMessage = "An unexpected internal server error occurred."
			log.Printf("Unhandled error type: %T, Error: %v", err, err)
		}

		// Abort execution and send JSON response
		// Ensure response hasn't already been sent (Gin usually handles this with Abort)
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		}
	}
}

// api/handlers/user_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/handin-dev/handin-backend/api/middleware"
	"github.com/handin-dev/handin-backend/api/models"
	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/auth"
	"github.com/handin-dev/handin-backend/internal/core"
	"github.com/handin-dev/handin-backend/internal/domain"
	"github.com/handin-dev/handin-backend/internal/logger"
	"github.com/handin-dev/handin-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// UserHandler holds dependencies for the student-facing handlers.
type UserHandler struct {
	Users       storage.UserStore
	Assignments storage.AssignmentStore
	Cfg         *config.Config
}

// NewUserHandler creates a new UserHandler with dependencies.
func NewUserHandler(users storage.UserStore, assignments storage.AssignmentStore, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Users:       users,
		Assignments: assignments,
		Cfg:         cfg,
	}
}

// Register handles student account registration.
func (h *UserHandler) Register(c *gin.Context) {
	registerAccount(c, h.Users, domain.RoleUser, "User registered successfully")
}

// Login authenticates a student account and issues an access token.
func (h *UserHandler) Login(c *gin.Context) {
	loginAccount(c, h.Users, h.Cfg, false)
}

// Upload stores a new assignment addressed to a named admin.
func (h *UserHandler) Upload(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	var req models.AssignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("binding error: %w", err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// The reviewer must exist and actually be an admin.
	admin, err := h.Users.FindByUsername(c.Request.Context(), req.Admin)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, storage.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Admin '%s' not found.", req.Admin)})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up admin."})
		}
		return
	}
	if admin.Role != domain.RoleAdmin {
		_ = c.Error(storage.ErrUserNotFound)
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Admin '%s' not found.", req.Admin)})
		return
	}

	assignment := &domain.Assignment{
		OwnerID:   currentUser.ID,
		UserID:    req.UserID,
		Task:      req.Task,
		AdminID:   admin.ID,
		Admin:     admin.Username,
		Status:    domain.StatusPending,
		Timestamp: time.Now().UTC(),
	}

	id, err := h.Assignments.Insert(c.Request.Context(), assignment)
	if err != nil {
		customLog.Warnf("Failed to store assignment from %s: %v", currentUser.Username, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload assignment."})
		return
	}

	customLog.Printf("Assignment %s uploaded by %s for admin %s", id.Hex(), currentUser.Username, admin.Username)
	c.JSON(http.StatusOK, models.AssignmentCreateResponse{
		ID:      id.Hex(),
		Message: "Assignment uploaded successfully",
	})
}

// Admins lists all admin accounts students can address work to.
func (h *UserHandler) Admins(c *gin.Context) {
	admins, err := h.Users.ListAdmins(c.Request.Context())
	if err != nil {
		customLog.Warnf("Failed to list admins: %v", err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list admins."})
		return
	}
	if len(admins) == 0 {
		_ = c.Error(storage.ErrUserNotFound)
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No admins found."})
		return
	}

	summaries := make([]models.AdminSummary, 0, len(admins))
	for _, admin := range admins {
		summaries = append(summaries, models.AdminSummary{
			ID:       admin.ID.Hex(),
			Username: admin.Username,
		})
	}
	c.JSON(http.StatusOK, models.AdminListResponse{Admins: summaries})
}

// registerAccount is the shared registration flow for both roles.
func registerAccount(c *gin.Context, users storage.UserStore, role, successMessage string) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Register binding error: %v", err)
		_ = c.Error(fmt.Errorf("binding error: %w", err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if !core.IsValidUsername(req.Username) {
		err := errors.New("invalid username format")
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid username. Use 3-64 letters, digits, '.', '_' or '-'.",
		})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		customLog.Warnf("Failed to hash password during registration for %s: %v", req.Username, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account."})
		return
	}

	id, err := users.Create(c.Request.Context(), &domain.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, storage.ErrUsernameTaken) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		} else {
			customLog.Warnf("Failed to create %s account %s: %v", role, req.Username, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account."})
		}
		return
	}

	customLog.Printf("Successfully registered %s account %s", role, req.Username)
	c.JSON(http.StatusOK, models.RegisterResponse{ID: id.Hex(), Message: successMessage})
}

// loginAccount is the shared credential check. With adminOnly set, accounts
// without the admin role are rejected exactly like bad passwords so the
// endpoint does not leak which part of the login failed.
func loginAccount(c *gin.Context, users storage.UserStore, cfg *config.Config, adminOnly bool) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(fmt.Errorf("binding error: %w", err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		customLog.Warnf("Login lookup failed for %s: %v", req.Username, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in."})
		return
	}

	if err != nil ||
		!auth.CheckPasswordHash(req.Password, user.PasswordHash) ||
		(adminOnly && user.Role != domain.RoleAdmin) {
		customLog.Warnf("Login attempt failed for %s", req.Username)
		_ = c.Error(storage.ErrInvalidCredentials)
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	tokenString, err := auth.GenerateJWT(user.Username, cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", user.Username, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token."})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		ID:          user.ID.Hex(),
		Username:    user.Username,
		AccessToken: tokenString,
		TokenType:   "bearer",
	})
}

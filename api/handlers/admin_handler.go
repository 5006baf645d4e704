// api/handlers/admin_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/handin-dev/handin-backend/api/middleware"
	"github.com/handin-dev/handin-backend/api/models"
	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/core"
	"github.com/handin-dev/handin-backend/internal/domain"
	"github.com/handin-dev/handin-backend/internal/storage"
)

// AdminHandler holds dependencies for the reviewer-facing handlers.
type AdminHandler struct {
	Users       storage.UserStore
	Assignments storage.AssignmentStore
	Cfg         *config.Config
}

// NewAdminHandler creates a new AdminHandler with dependencies.
func NewAdminHandler(users storage.UserStore, assignments storage.AssignmentStore, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		Users:       users,
		Assignments: assignments,
		Cfg:         cfg,
	}
}

// Register handles admin account registration.
func (h *AdminHandler) Register(c *gin.Context) {
	registerAccount(c, h.Users, domain.RoleAdmin, "Admin registered successfully")
}

// Login authenticates an admin account and issues an access token.
func (h *AdminHandler) Login(c *gin.Context) {
	loginAccount(c, h.Users, h.Cfg, true)
}

// Assignments lists the review queue. By default it shows work addressed
// to the calling admin; ?admin=<username> switches to another admin's
// queue. Supports limit/offset pagination.
func (h *AdminHandler) Assignments(c *gin.Context) {
	currentUser := middleware.CurrentUser(c)

	opts, err := core.ParseListQueryOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignments []domain.Assignment
	if adminName := c.Query("admin"); adminName != "" {
		assignments, err = h.Assignments.ListByAdminName(c.Request.Context(), adminName, opts)
	} else {
		assignments, err = h.Assignments.ListByAdminID(c.Request.Context(), currentUser.ID, opts)
	}
	if err != nil {
		customLog.Warnf("Failed to list assignments for %s: %v", currentUser.Username, err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assignments."})
		return
	}

	responses := make([]models.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, models.AssignmentResponse{
			ID:        assignment.ID.Hex(),
			UserID:    assignment.UserID,
			Task:      assignment.Task,
			Admin:     assignment.Admin,
			Status:    assignment.Status,
			Timestamp: assignment.Timestamp,
		})
	}
	c.JSON(http.StatusOK, models.AssignmentListResponse{Assignments: responses})
}

// Accept marks an assignment as accepted.
func (h *AdminHandler) Accept(c *gin.Context) {
	h.updateStatus(c, domain.StatusAccepted)
}

// Reject marks an assignment as rejected.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.updateStatus(c, domain.StatusRejected)
}

func (h *AdminHandler) updateStatus(c *gin.Context, status string) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		_ = c.Error(storage.ErrInvalidAssignmentID)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID."})
		return
	}

	if err := h.Assignments.UpdateStatus(c.Request.Context(), id, status); err != nil {
		_ = c.Error(err)
		if errors.Is(err, storage.ErrAssignmentNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Assignment not found."})
		} else {
			customLog.Warnf("Failed to update assignment %s to %s: %v", id.Hex(), status, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignment status."})
		}
		return
	}

	customLog.Printf("Assignment %s marked %s by %s", id.Hex(), status, middleware.CurrentUser(c).Username)
	c.JSON(http.StatusOK, models.StatusUpdateResponse{Message: "Assignment status updated successfully"})
}

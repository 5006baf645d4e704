// api/models/assignment_models.go
package models

import "time"

// --- Assignment Request/Response Structs ---

// AssignmentCreateRequest defines the structure for the upload request body.
// UserID is a free-form identifier the uploader attaches to the submission
// (registration number, matriculation ID and so on); Admin names the
// reviewer the work is addressed to.
type AssignmentCreateRequest struct {
	UserID string `json:"userId" binding:"required"`
	Task   string `json:"task" binding:"required"`
	Admin  string `json:"admin" binding:"required"`
}

// AssignmentCreateResponse confirms a stored submission.
type AssignmentCreateResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AssignmentResponse is the public view of a stored assignment.
type AssignmentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Task      string    `json:"task"`
	Admin     string    `json:"admin"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// AssignmentListResponse wraps an admin's review queue.
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// StatusUpdateResponse confirms an accept or reject verdict.
type StatusUpdateResponse struct {
	Message string `json:"message"`
}

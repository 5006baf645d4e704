// internal/domain/models.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. Every stored user carries exactly one of these.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Assignment review states.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// User defines the structure for account documents in the users collection.
// Both regular users and admins live here, distinguished by Role.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Assignment is a submitted piece of work waiting for an admin verdict.
// OwnerID is the account that uploaded it; UserID is the free-form
// identifier the uploader supplied in the request body.
type Assignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"user_id" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	Task      string             `bson:"task" json:"task"`
	AdminID   primitive.ObjectID `bson:"admin_id" json:"-"`
	Admin     string             `bson:"admin" json:"admin"`
	Status    string             `bson:"status" json:"status"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ValidStatus reports whether s is one of the assignment review states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

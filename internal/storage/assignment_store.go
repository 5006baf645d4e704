// internal/storage/assignment_store.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/handin-dev/handin-backend/internal/core"
	"github.com/handin-dev/handin-backend/internal/domain"
)

// Specific errors for assignment operations
var (
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrInvalidAssignmentID = errors.New("invalid assignment ID")
)

// AssignmentStore is the persistence surface for submitted assignments.
type AssignmentStore interface {
	Insert(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	ListByAdminID(ctx context.Context, adminID primitive.ObjectID, opts *core.ListQueryOptions) ([]domain.Assignment, error)
	ListByAdminName(ctx context.Context, admin string, opts *core.ListQueryOptions) ([]domain.Assignment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// MongoAssignmentStore stores assignments in the assignments collection.
type MongoAssignmentStore struct {
	col *mongo.Collection
}

// NewMongoAssignmentStore returns a store backed by the assignments
// collection of db.
func NewMongoAssignmentStore(db *mongo.Database) *MongoAssignmentStore {
	return &MongoAssignmentStore{col: db.Collection(assignmentsCollection)}
}

// Insert stores a new assignment document and returns its generated ID.
func (s *MongoAssignmentStore) Insert(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, assignment)
	if err != nil {
		log.Printf("Storage: Failed to insert assignment for admin %s: %v", assignment.Admin, err)
		return primitive.NilObjectID, fmt.Errorf("database error during assignment upload: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		log.Printf("Storage: Unexpected inserted ID type %T for assignment", result.InsertedID)
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	return id, nil
}

// ListByAdminID returns assignments addressed to the admin account with the
// given ID, newest first.
func (s *MongoAssignmentStore) ListByAdminID(ctx context.Context, adminID primitive.ObjectID, opts *core.ListQueryOptions) ([]domain.Assignment, error) {
	return s.list(ctx, bson.M{"admin_id": adminID}, opts)
}

// ListByAdminName returns assignments addressed to the admin with the given
// username, newest first.
func (s *MongoAssignmentStore) ListByAdminName(ctx context.Context, admin string, opts *core.ListQueryOptions) ([]domain.Assignment, error) {
	return s.list(ctx, bson.M{"admin": admin}, opts)
}

func (s *MongoAssignmentStore) list(ctx context.Context, filter bson.M, opts *core.ListQueryOptions) ([]domain.Assignment, error) {
	if opts == nil {
		opts = &core.ListQueryOptions{Limit: core.DefaultLimit}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(opts.Limit)).
		SetSkip(int64(opts.Offset))

	cursor, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		log.Printf("Storage: Failed to query assignments (%v): %v", filter, err)
		return nil, fmt.Errorf("database error listing assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		log.Printf("Storage: Failed to decode assignments: %v", err)
		return nil, fmt.Errorf("database error decoding assignments: %w", err)
	}
	return assignments, nil
}

// UpdateStatus sets the review status of a single assignment. Only the
// states declared in domain are accepted.
func (s *MongoAssignmentStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("invalid assignment status %q", status)
	}

	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		log.Printf("Storage: Failed to update assignment %s status: %v", id.Hex(), err)
		return fmt.Errorf("database error updating assignment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

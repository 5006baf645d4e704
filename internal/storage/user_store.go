// internal/storage/user_store.go
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

	"github.com/handin-dev/handin-backend/internal/domain"
)

// Specific errors for account operations
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore is the persistence surface for accounts. Handlers and
// middleware depend on this interface so tests can swap in the in-memory
// implementation.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

// MongoUserStore stores accounts in the users collection.
type MongoUserStore struct {
	col *mongo.Collection
}

// NewMongoUserStore returns a store backed by the users collection of db.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

// Create inserts a new account document. Username uniqueness is enforced
// by the collection's unique index rather than a read-then-write check.
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrUsernameTaken
		}
		log.Printf("Storage: Failed to insert user %s: %v", user.Username, err)
		return primitive.NilObjectID, fmt.Errorf("database error during user creation: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		log.Printf("Storage: Unexpected inserted ID type %T for user %s", result.InsertedID, user.Username)
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	return id, nil
}

// FindByUsername retrieves an account by its unique username.
func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		log.Printf("Storage: Failed to find user by username %s: %v", username, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}

// FindByID retrieves an account by its ObjectID.
func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		log.Printf("Storage: Failed to find user by ID %s: %v", id.Hex(), err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}

// ListAdmins returns every admin account, ordered by username so the
// listing endpoint stays deterministic.
func (s *MongoUserStore) ListAdmins(ctx context.Context) ([]domain.User, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{"role": domain.RoleAdmin}, findOpts)
	if err != nil {
		log.Printf("Storage: Failed to query admins: %v", err)
		return nil, fmt.Errorf("database error listing admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []domain.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Printf("Storage: Failed to decode admins: %v", err)
		return nil, fmt.Errorf("database error decoding admins: %w", err)
	}
	return admins, nil
}

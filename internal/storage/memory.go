// internal/storage/memory.go
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/handin-dev/handin-backend/internal/core"
	"github.com/handin-dev/handin-backend/internal/domain"
)

// In-memory store implementations. They mirror the Mongo stores'
// observable behavior (sentinel errors, ordering, pagination) so handler
// tests can run against them without a server.

// MemoryUserStore is an in-memory UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

// NewMemoryUserStore returns an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]domain.User)}
}

// Create stores a copy of user under a fresh ObjectID.
func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return primitive.NilObjectID, ErrUsernameTaken
		}
	}

	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	s.users[id] = stored
	return id, nil
}

// FindByUsername returns a copy of the account with the given username.
func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID returns a copy of the account with the given ID.
func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := user
	return &found, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *MemoryUserStore) ListAdmins(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var admins []domain.User
	for _, user := range s.users {
		if user.Role == domain.RoleAdmin {
			admins = append(admins, user)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].Username < admins[j].Username })
	return admins, nil
}

// MemoryAssignmentStore is an in-memory AssignmentStore.
type MemoryAssignmentStore struct {
	mu          sync.RWMutex
	assignments map[primitive.ObjectID]domain.Assignment
}

// NewMemoryAssignmentStore returns an empty in-memory assignment store.
func NewMemoryAssignmentStore() *MemoryAssignmentStore {
	return &MemoryAssignmentStore{assignments: make(map[primitive.ObjectID]domain.Assignment)}
}

// Insert stores a copy of assignment under a fresh ObjectID.
func (s *MemoryAssignmentStore) Insert(_ context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := primitive.NewObjectID()
	stored := *assignment
	stored.ID = id
	s.assignments[id] = stored
	return id, nil
}

// ListByAdminID returns assignments addressed to the given admin ID,
// newest first.
func (s *MemoryAssignmentStore) ListByAdminID(_ context.Context, adminID primitive.ObjectID, opts *core.ListQueryOptions) ([]domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Assignment
	for _, a := range s.assignments {
		if a.AdminID == adminID {
			matched = append(matched, a)
		}
	}
	return paginate(matched, opts), nil
}

// ListByAdminName returns assignments addressed to the given admin
// username, newest first.
func (s *MemoryAssignmentStore) ListByAdminName(_ context.Context, admin string, opts *core.ListQueryOptions) ([]domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Assignment
	for _, a := range s.assignments {
		if a.Admin == admin {
			matched = append(matched, a)
		}
	}
	return paginate(matched, opts), nil
}

// UpdateStatus sets the review status of a stored assignment.
func (s *MemoryAssignmentStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("invalid assignment status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[id]
	if !ok {
		return ErrAssignmentNotFound
	}
	assignment.Status = status
	s.assignments[id] = assignment
	return nil
}

// Get returns a stored assignment by ID. Test helper; the HTTP surface has
// no single-assignment lookup.
func (s *MemoryAssignmentStore) Get(id primitive.ObjectID) (domain.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment, ok := s.assignments[id]
	return assignment, ok
}

func paginate(assignments []domain.Assignment, opts *core.ListQueryOptions) []domain.Assignment {
	if opts == nil {
		opts = &core.ListQueryOptions{Limit: core.DefaultLimit}
	}

	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Timestamp.After(assignments[j].Timestamp)
	})

	if opts.Offset >= len(assignments) {
		return []domain.Assignment{}
	}
	assignments = assignments[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(assignments) {
		assignments = assignments[:opts.Limit]
	}
	return assignments
}

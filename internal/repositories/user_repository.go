package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	models "github.com/aaravmahajanofficial/users-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserById(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// userRepository keeps records in a map for lookups and an id slice for
// insertion order. All access goes through mu.
type userRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	order []string
}

func NewUserRepo() UserRepository {
	return &userRepository{
		users: make(map[string]*models.User),
		order: make([]string, 0),
	}
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, cloneUser(r.users[id]))
	}

	return users, nil
}

func (r *userRepository) GetUserById(ctx context.Context, id string) (*models.User, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrUserExists
	}

	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)

	return nil
}

// UpdateUser replaces the stored record in place, keeping its list position.
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	r.users[user.ID] = cloneUser(user)

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id string) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}

	delete(r.users, id)

	if idx := slices.Index(r.order, id); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}

	return nil
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.Hobbies = slices.Clone(user.Hobbies)

	if clone.Hobbies == nil {
		clone.Hobbies = []string{}
	}

	return &clone
}

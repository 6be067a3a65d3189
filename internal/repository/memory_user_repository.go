package repository

import (
	"context"
	"sync"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
)

// memoryUserRepository keeps users in a process-lifetime map. Operations
// are synchronous and guarded by a single mutex.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

// NewMemoryUserRepository creates an in-memory UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

// Create stores a new user, enforcing username uniqueness.
func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return ErrUserAlreadyExists
		}
	}

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria, indexados por username.
type UserRepo struct {
	mu         sync.RWMutex
	byUsername map[string]entity.User
}

// NewUserRepository construye el store vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{byUsername: make(map[string]entity.User)}
}

// Create persiste un usuario. ErrUsernameTaken si el username ya existe.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	r.byUsername[user.Username] = *user
	return nil
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

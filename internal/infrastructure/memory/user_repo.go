package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/task-manager/internal/domain"
)

// UserRepo is an in-process credential store for local development and tests.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = string(domain.RoleMember)
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if u.Email != prev.Email {
		if _, taken := r.byEmail[u.Email]; taken {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[u.Email] = u.ID
	}
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) SetProfileImageURL(ctx context.Context, userID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ProfileImageURL = url
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, userID)
	return nil
}

// Ping always succeeds; it lets the memory store back the readiness probe.
func (r *UserRepo) Ping(ctx context.Context) error { return nil }

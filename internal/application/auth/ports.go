package auth

import (
	"context"
	"io"
	"time"

	"github.com/baechuer/task-manager/internal/domain"
)

/*
UserRepo
--------
Credential store port.
Only describes WHAT the profile service needs, not HOW it's stored.
Lookups return domain.ErrUserNotFound when nothing matches and
Create/Update return domain.ErrEmailAlreadyExists on a unique email violation.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)
	SetProfileImageURL(ctx context.Context, userID, url string) error
	Delete(ctx context.Context, userID string) error
}

/*
TaskRepo
--------
Only the owner cascade is needed here.
*/
type TaskRepo interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session credentials (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
ImageStore
----------
Remote object storage for profile images.
Upload returns the public URL of the stored object.
*/
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageStore interface {
	Upload(ctx context.Context, folder string, img ImageUpload) (url string, err error)
	Delete(ctx context.Context, key string) error
}

/*
EventPublisher
--------------
Profile lifecycle events. Publishing is best-effort.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishUserDeleted(ctx context.Context, evt UserDeletedEvent) error
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type UserDeletedEvent struct {
	UserID       string `json:"user_id"`
	TasksDeleted int64  `json:"tasks_deleted"`
}

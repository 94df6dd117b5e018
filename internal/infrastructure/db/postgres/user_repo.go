package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/baechuer/task-manager/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:              ur.ID,
		Name:            ur.Name,
		Email:           ur.Email,
		PasswordHash:    ur.PasswordHash,
		ProfileImageURL: ur.ProfileImageURL.String,
		Role:            ur.Role,
		CreatedAt:       ur.CreatedAt,
		UpdatedAt:       ur.UpdatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = string(domain.RoleMember)
	}

	const q = `
INSERT INTO users (id, name, email, password_hash, profile_image_url, role)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Name, u.Email, u.PasswordHash, nullable(u.ProfileImageURL), u.Role,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	if strings.TrimSpace(u.ID) == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
UPDATE users
SET name = $2,
    email = $3,
    password_hash = $4,
    profile_image_url = $5,
    role = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Name, strings.TrimSpace(u.Email), u.PasswordHash, nullable(u.ProfileImageURL), u.Role,
	))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetProfileImageURL(ctx context.Context, userID, url string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET profile_image_url = $2,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, nullable(url))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `DELETE FROM users WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

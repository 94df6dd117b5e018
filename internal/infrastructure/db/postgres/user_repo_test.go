package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/task-manager/internal/domain"
)

var userCols = []string{"id", "name", "email", "password_hash", "profile_image_url", "role", "created_at", "updated_at"}

func newUserRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserRepo_GetByEmail_Found(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^SELECT .+ FROM users WHERE email = \$1 LIMIT 1;$`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Alice", "a@x.com", "hash", nil, "member", now, now))

	u, err := repo.GetByEmail(context.Background(), "  a@x.com ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Empty(t, u.ProfileImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE email`).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@x.com")
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_GetByID_DBDown(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE id`).
		WithArgs("u1").
		WillReturnError(errors.New("conn refused"))

	_, err := repo.GetByID(context.Background(), "u1")
	assert.True(t, domain.Is(err, "db_unavailable"), "got %v", err)
}

func TestUserRepo_GetByID_EmptyID(t *testing.T) {
	repo, _ := newUserRepoWithMock(t)

	_, err := repo.GetByID(context.Background(), " ")
	assert.True(t, domain.Is(err, "missing_field"))
}

func TestUserRepo_Create_Success(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^\s*INSERT INTO users \(id, name, email, password_hash, profile_image_url, role\)`).
		WithArgs(sqlmock.AnyArg(), "Alice", "a@x.com", "hash", sqlmock.AnyArg(), "member").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Alice", "a@x.com", "hash", "https://cdn/a.png", "member", now, now))

	u, err := repo.Create(context.Background(), domain.User{
		Name:            "Alice",
		Email:           "a@x.com",
		PasswordHash:    "hash",
		ProfileImageURL: "https://cdn/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "https://cdn/a.png", u.ProfileImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "users_email_key"})

	_, err := repo.Create(context.Background(), domain.User{Email: "a@x.com", PasswordHash: "hash"})
	assert.True(t, domain.Is(err, "email_exists"), "got %v", err)
}

func TestUserRepo_Create_MissingFields(t *testing.T) {
	repo, _ := newUserRepoWithMock(t)

	_, err := repo.Create(context.Background(), domain.User{PasswordHash: "hash"})
	assert.True(t, domain.Is(err, "missing_field"))

	_, err = repo.Create(context.Background(), domain.User{Email: "a@x.com"})
	assert.True(t, domain.Is(err, "missing_field"))
}

func TestUserRepo_Update(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)UPDATE users\s+SET name = \$2`).
		WithArgs("u1", "Bob", "b@x.com", "hash", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "Bob", "b@x.com", "hash", nil, "admin", now, now))

	u, err := repo.Update(context.Background(), domain.User{
		ID: "u1", Name: "Bob", Email: "b@x.com", PasswordHash: "hash", Role: "admin",
	})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestUserRepo_Update_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"no rows", sql.ErrNoRows, "user_not_found"},
		{"duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`), "email_exists"},
		{"other", errors.New("boom"), "db_unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newUserRepoWithMock(t)
			mock.ExpectQuery(`UPDATE users`).WillReturnError(tc.err)

			_, err := repo.Update(context.Background(), domain.User{ID: "u1", Email: "a@x.com"})
			assert.True(t, domain.Is(err, tc.code), "got %v", err)
		})
	}
}

func TestUserRepo_SetProfileImageURL(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`(?s)UPDATE users\s+SET profile_image_url = \$2`).
		WithArgs("u1", "https://cdn/x.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetProfileImageURL(context.Background(), "u1", "https://cdn/x.png"))

	mock.ExpectExec(`UPDATE users`).
		WithArgs("ghost", "https://cdn/x.png").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetProfileImageURL(context.Background(), "ghost", "https://cdn/x.png")
	assert.True(t, domain.Is(err, "user_not_found"))
}

func TestUserRepo_Delete(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1;`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1"))

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, domain.Is(repo.Delete(context.Background(), "u1"), "user_not_found"))

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("u1").
		WillReturnError(errors.New("boom"))
	assert.True(t, domain.Is(repo.Delete(context.Background(), "u1"), "db_unavailable"))
}

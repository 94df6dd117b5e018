package postgres

import (
	"database/sql"
	"time"
)

type userRow struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	ProfileImageURL sql.NullString
	Role            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const userColumns = `id, name, email, password_hash, profile_image_url, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.ProfileImageURL,
		&ur.Role,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

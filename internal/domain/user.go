package domain

import "time"

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	Role            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

package dto

import (
	"time"

	"github.com/baechuer/task-manager/internal/domain"
)

// AuthResponse is returned by signup, signin and profile update:
// the public profile fields plus a fresh session token.
type AuthResponse struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
	Role            string `json:"role"`
	Token           string `json:"token"`
}

// ProfileResponse is the stored user without the password hash.
type ProfileResponse struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func NewAuthResponse(u domain.User, token string) AuthResponse {
	return AuthResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		Token:           token,
	}
}

func NewProfileResponse(u domain.User) ProfileResponse {
	return ProfileResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

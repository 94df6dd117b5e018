package dto

import "strings"

// SignUpRequest only checks the email shape here. Password rules are
// applied by the service after the duplicate-email lookup.
type SignUpRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

func (r *SignUpRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ProfileImageURL = strings.TrimSpace(r.ProfileImageURL)
	return validateStruct(r)
}

// SignInRequest is unvalidated: missing fields fail as invalid
// credentials, indistinguishable from a wrong password.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial update; empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name             string `json:"name" validate:"omitempty,max=100"`
	Email            string `json:"email" validate:"omitempty,email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl" validate:"omitempty,url"`
	AdminInviteToken string `json:"adminInviteToken"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ProfileImageURL = strings.TrimSpace(r.ProfileImageURL)
	return validateStruct(r)
}

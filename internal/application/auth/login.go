package auth

import (
	"context"
	"strings"

	"github.com/baechuer/task-manager/internal/domain"
)

// SignIn authenticates a user and issues a session credential.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return AuthResult{}, domain.ErrInvalidCredentials()
		}
		return AuthResult{}, asDomain(err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	return s.issueToken(u)
}

package auth

import (
	"context"
	"strings"

	"github.com/baechuer/task-manager/internal/domain"
)

// bcrypt refuses inputs longer than 72 bytes.
const maxPasswordBytes = 72

type SignUpInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

// SignUp creates a member account, or an admin account when the invite
// token matches the configured secret.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return AuthResult{}, domain.ErrMissingField("email")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, domain.ErrEmailAlreadyExists()
	case !domain.Is(err, "user_not_found"):
		return AuthResult{}, asDomain(err)
	}

	// Checked after the lookup so a taken email is always a conflict.
	if in.Password == "" {
		return AuthResult{}, domain.ErrMissingField("password")
	}
	if err := checkPasswordLen(in.Password); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, domain.ErrHashFailed(err)
	}

	role := domain.RoleForInvite(in.AdminInviteToken, s.adminInviteToken)
	created, err := s.users.Create(ctx, domain.User{
		Name:            strings.TrimSpace(in.Name),
		Email:           email,
		PasswordHash:    hash,
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
		Role:            string(role),
	})
	if err != nil {
		// a concurrent sign-up can slip past the pre-check
		return AuthResult{}, asDomain(err)
	}

	res, err := s.issueToken(created)
	if err != nil {
		return AuthResult{}, err
	}

	pctx, cancel := detached(ctx)
	defer cancel()
	if err := s.pub.PublishUserRegistered(pctx, UserRegisteredEvent{
		UserID: created.ID,
		Email:  created.Email,
		Role:   created.Role,
	}); err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Msg("publish user.registered failed")
	}

	s.audit("user.signup", map[string]string{
		"user_id": created.ID,
		"role":    created.Role,
	})
	return res, nil
}

func checkPasswordLen(pw string) error {
	if len(pw) > maxPasswordBytes {
		return domain.ErrInvalidField("password", "must be at most 72 bytes")
	}
	return nil
}

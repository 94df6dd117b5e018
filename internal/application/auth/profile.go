package auth

import (
	"context"
	"strings"

	"github.com/baechuer/task-manager/internal/domain"
)

// ProfilePatch carries the fields of a profile update.
// Empty strings mean "leave unchanged".
type ProfilePatch struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

// UpdateProfile applies the supplied fields and issues a new credential.
// Earlier credentials stay valid until they expire.
func (s *Service) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (AuthResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, asDomain(err)
	}

	if name := strings.TrimSpace(p.Name); name != "" {
		u.Name = name
	}

	// Any existing owner of the address is a conflict, the caller included.
	if email := strings.TrimSpace(p.Email); email != "" {
		_, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return AuthResult{}, domain.ErrEmailAlreadyExists()
		case !domain.Is(err, "user_not_found"):
			return AuthResult{}, asDomain(err)
		}
		u.Email = email
	}

	if p.Password != "" {
		if err := checkPasswordLen(p.Password); err != nil {
			return AuthResult{}, err
		}
		hash, err := s.hasher.Hash(p.Password)
		if err != nil {
			return AuthResult{}, domain.ErrHashFailed(err)
		}
		u.PasswordHash = hash
	}

	promoted := false
	if u.Role == string(domain.RoleMember) &&
		domain.RoleForInvite(p.AdminInviteToken, s.adminInviteToken) == domain.RoleAdmin {
		u.Role = string(domain.RoleAdmin)
		promoted = true
	}

	if img := strings.TrimSpace(p.ProfileImageURL); img != "" {
		u.ProfileImageURL = img
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return AuthResult{}, asDomain(err)
	}

	if promoted {
		s.audit("user.promote", map[string]string{
			"user_id": updated.ID,
			"role":    updated.Role,
		})
	}
	return s.issueToken(updated)
}

// DeleteProfile removes the user's image, tasks and record, in that order.
// The image delete is best-effort.
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return asDomain(err)
	}

	s.deleteImage(ctx, u)

	n, err := s.tasks.DeleteByUser(ctx, u.ID)
	if err != nil {
		return asDomain(err)
	}

	if err := s.users.Delete(ctx, u.ID); err != nil {
		return asDomain(err)
	}

	pctx, cancel := detached(ctx)
	defer cancel()
	if err := s.pub.PublishUserDeleted(pctx, UserDeletedEvent{UserID: u.ID, TasksDeleted: n}); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Msg("publish user.deleted failed")
	}

	s.audit("user.delete", map[string]string{
		"user_id": u.ID,
		"tasks":   itoa(n),
	})
	return nil
}

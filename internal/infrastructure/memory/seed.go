package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/task-manager/internal/domain"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedUsers creates initial users for local development (in-memory only).
// Safe to call multiple times (duplicates ignored).
func SeedUsers(ctx context.Context, users *UserRepo, hasher Hasher, log zerolog.Logger) int {
	seeds := []struct {
		Name  string
		Email string
		Role  domain.Role
		Pass  string
	}{
		{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, Pass: "AdminPassword123!"},
		{Name: "Member", Email: "member@example.com", Role: domain.RoleMember, Pass: "MemberPassword123!"},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Warn().Err(err).Str("email", s.Email).Msg("[seed] hash failed")
			continue
		}

		_, err = users.Create(ctx, domain.User{
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         string(s.Role),
		})
		if err != nil {
			// ignore duplicates / restart
			continue
		}
		created++
	}

	log.Info().Int("created", created).Msg("[seed] in-memory users seeded")
	return created
}

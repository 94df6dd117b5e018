package auth

import (
	"context"

	"github.com/baechuer/task-manager/internal/domain"
)

func (s *Service) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, asDomain(err)
	}
	return u, nil
}

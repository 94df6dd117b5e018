package auth

import (
	"context"
	"strconv"

	"github.com/baechuer/task-manager/internal/domain"
)

// UploadImage stores an image that is not yet tied to a user, e.g. before sign-up.
func (s *Service) UploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || img.Body == nil {
		return "", domain.ErrMissingFile()
	}
	url, err := s.images.Upload(ctx, s.imageFolder, *img)
	if err != nil {
		return "", domain.ErrImageUploadFailed(err)
	}
	return url, nil
}

// UpdateProfileImage replaces the user's image and returns the new URL.
// Without a file it returns the current URL unchanged.
func (s *Service) UpdateProfileImage(ctx context.Context, userID string, img *ImageUpload) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", asDomain(err)
	}
	if img == nil || img.Body == nil {
		return u.ProfileImageURL, nil
	}

	s.deleteImage(ctx, u)

	url, err := s.images.Upload(ctx, s.imageFolder, *img)
	if err != nil {
		return "", domain.ErrImageUploadFailed(err)
	}

	if err := s.users.SetProfileImageURL(ctx, u.ID, url); err != nil {
		return "", asDomain(err)
	}
	return url, nil
}

// deleteImage removes the object behind u.ProfileImageURL, if one can be derived.
// Failures are logged and never returned.
func (s *Service) deleteImage(ctx context.Context, u domain.User) {
	key, ok := domain.ImageKeyFromURL(s.imageFolder, u.ProfileImageURL)
	if !ok {
		return
	}

	dctx, cancel := detached(ctx)
	defer cancel()
	if err := s.images.Delete(dctx, key); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Str("key", key).Msg("profile image delete failed")
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

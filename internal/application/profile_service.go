package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
)

// ProfileService mutates account details and the avatar/cover assets.
type ProfileService struct {
	Users   repository.UserRepository
	Assets  AssetStorage
	Indexer *ChannelIndexer
	Logger  *logrus.Logger
}

func NewProfileService(users repository.UserRepository, assets AssetStorage, indexer *ChannelIndexer, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Assets: assets, Indexer: indexer, Logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		}
		return nil, apperrors.Internal(err)
	}
	return u.Public(), nil
}

// UpdateDetails applies a partial update of full name and/or email. At least
// one field must be provided.
func (s *ProfileService) UpdateDetails(ctx context.Context, userID, fullName, email string) (*entity.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" && email == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Please provide the details you want to change")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Please enter a valid email address")
	}

	u, err := s.Users.UpdateDetails(ctx, userID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			return nil, apperrors.Wrap(apperrors.ErrConflict, "A user with this email already exists")
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		default:
			return nil, apperrors.Internal(err)
		}
	}

	_ = s.Indexer.IndexUser(ctx, u)
	return u.Public(), nil
}

// UpdateAvatar uploads the replacement, swaps the URL, then deletes the
// superseded asset. A failed delete is logged and does not fail the update.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID string, file *UploadedFile) (*entity.PublicUser, error) {
	return s.replaceImage(ctx, userID, file, "Avatar file is required",
		func(u *entity.User) string { return u.AvatarURL },
		s.Users.UpdateAvatar,
	)
}

// UpdateCoverImage behaves like UpdateAvatar for the optional cover image.
func (s *ProfileService) UpdateCoverImage(ctx context.Context, userID string, file *UploadedFile) (*entity.PublicUser, error) {
	return s.replaceImage(ctx, userID, file, "Cover image file is required",
		func(u *entity.User) string { return u.CoverImageURL },
		s.Users.UpdateCoverImage,
	)
}

func (s *ProfileService) replaceImage(
	ctx context.Context,
	userID string,
	file *UploadedFile,
	missingMsg string,
	currentURL func(*entity.User) string,
	persist func(ctx context.Context, id, url string) (*entity.User, error),
) (*entity.PublicUser, error) {
	if file == nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, missingMsg)
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		}
		return nil, apperrors.Internal(err)
	}
	prevURL := currentURL(u)

	asset, err := s.Assets.Upload(ctx, file.Reader, file.Filename, file.ContentType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpload, "Image upload failed, please try again")
	}

	updated, err := persist(ctx, userID, asset.URL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if prevURL != "" {
		if err := s.Assets.Delete(ctx, prevURL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("url", prevURL).Warn("failed to delete superseded asset")
		}
	}

	_ = s.Indexer.IndexUser(ctx, updated)
	return updated.Public(), nil
}

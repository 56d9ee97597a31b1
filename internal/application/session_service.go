package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
	"github.com/vidhub/vidhub-api/pkg/helpers"
)

// SessionService owns the login/logout/refresh state machine. A user has at
// most one valid refresh token at a time; login and refresh are the only
// operations that set it, logout is the only one that clears it.
type SessionService struct {
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
	Assets  AssetStorage
	Notify  *Notifier
	Indexer *ChannelIndexer
	Logger  *logrus.Logger
}

func NewSessionService(users repository.UserRepository, jwt *helpers.JWTManager, assets AssetStorage, notify *Notifier, indexer *ChannelIndexer, logger *logrus.Logger) *SessionService {
	return &SessionService{Users: users, JWT: jwt, Assets: assets, Notify: notify, Indexer: indexer, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Avatar     *UploadedFile
	CoverImage *UploadedFile
}

// Register validates the input, uploads the avatar (and optional cover
// image) to the asset store, and persists the new user. The returned record
// is sanitized. If creation fails after a successful upload the asset is
// orphaned; that reconciliation gap is accepted and visible in the logs.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Password = strings.TrimSpace(in.Password)

	// A field that is empty after trimming counts as missing.
	for _, field := range []string{in.FullName, in.Username, in.Email, in.Password} {
		if field == "" {
			return nil, apperrors.Wrap(apperrors.ErrValidation, "All fields are required")
		}
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Please enter a valid email address")
	}

	if _, err := s.Users.FindByIdentity(ctx, in.Username, in.Email); err == nil {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "A user with this username or email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	if in.Avatar == nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Avatar file is required")
	}
	avatar, err := s.Assets.Upload(ctx, in.Avatar.Reader, in.Avatar.Filename, in.Avatar.ContentType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpload, "Avatar upload failed, please try again")
	}

	coverURL := ""
	if in.CoverImage != nil {
		cover, err := s.Assets.Upload(ctx, in.CoverImage.Reader, in.CoverImage.Filename, in.CoverImage.ContentType)
		if err != nil {
			// The cover image is optional, so a failed upload degrades to none.
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("username", in.Username).Warn("cover image upload failed")
			}
		} else {
			coverURL = cover.URL
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := &entity.User{
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Wrap(apperrors.ErrConflict, "A user with this username or email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	s.Notify.Welcome(ctx, u)
	_ = s.Indexer.IndexUser(ctx, u)

	return u.Public(), nil
}

// Login verifies credentials, issues a token pair, and persists the refresh
// token. Persisting the refresh token is the single mutating side effect.
func (s *SessionService) Login(ctx context.Context, username, email, password string) (*entity.PublicUser, TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, TokenPair{}, apperrors.Wrap(apperrors.ErrValidation, "username or email is required")
	}

	u, err := s.Users.FindByIdentity(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, TokenPair{}, apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		}
		return nil, TokenPair{}, apperrors.Internal(err)
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, apperrors.Wrap(apperrors.ErrUnauthorized, "Invalid user credentials")
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, apperrors.Internal(err)
	}
	if err := s.Users.SetRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		return nil, TokenPair{}, apperrors.Internal(err)
	}

	return u.Public(), pair, nil
}

// Logout clears the stored refresh token unconditionally. It is idempotent:
// logging out an already logged-out user is not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.Users.SetRefreshToken(ctx, userID, ""); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair. The
// presented token must byte-for-byte match the stored one; the swap is a
// compare-and-set, so a token superseded by an earlier refresh can never be
// replayed.
func (s *SessionService) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	if presented == "" {
		return TokenPair{}, apperrors.Wrap(apperrors.ErrUnauthorized, "Unauthorized request")
	}

	claims, err := s.JWT.ParseRefreshToken(presented)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return TokenPair{}, apperrors.Wrap(apperrors.ErrUnauthorized, "Refresh token has expired")
		}
		return TokenPair{}, apperrors.Wrap(apperrors.ErrUnauthorized, "Invalid refresh token")
	}

	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return TokenPair{}, apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		}
		return TokenPair{}, apperrors.Internal(err)
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return TokenPair{}, apperrors.Internal(err)
	}

	ok, err := s.Users.RotateRefreshToken(ctx, u.ID, presented, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, apperrors.Internal(err)
	}
	if !ok {
		// A stale token after rotation may mean the real one was stolen.
		if s.Logger != nil {
			s.Logger.WithField("user_id", u.ID).Warn("refresh token reuse detected")
		}
		return TokenPair{}, apperrors.ErrRefreshTokenReused
	}

	return pair, nil
}

// ChangePassword replaces the stored hash after verifying the old password.
// The confirm mismatch check runs first so nothing is verified or mutated
// when the caller mistyped.
func (s *SessionService) ChangePassword(ctx context.Context, userID, oldPassword, confirmOldPassword, newPassword string) error {
	if oldPassword != confirmOldPassword {
		return apperrors.Wrap(apperrors.ErrValidation, "Password and confirm password do not match")
	}
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.Wrap(apperrors.ErrValidation, "New password is required")
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Wrap(apperrors.ErrNotFound, "User does not exist")
		}
		return apperrors.Internal(err)
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, oldPassword) {
		return apperrors.Wrap(apperrors.ErrUnauthorized, "Invalid old password")
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.Internal(err)
	}

	s.Notify.PasswordChanged(ctx, u)
	return nil
}

func (s *SessionService) issuePair(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

package repository

import (
	"context"

	"github.com/vidhub/vidhub-api/internal/domain/entity"
)

// UserRepository is the credential store contract. It exclusively owns the
// refresh_token column; no other component writes it directly.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// FindByIdentity resolves a user by username or email, case-insensitively.
	// Either argument may be empty; a user matching any non-empty one wins.
	FindByIdentity(ctx context.Context, username, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetRefreshToken stores the current refresh token, or clears it when
	// token is empty.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken atomically replaces the stored refresh token with
	// next, but only if the stored value still equals presented. It reports
	// false when the compare-and-set did not match, which means the presented
	// token was already rotated away.
	RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error)
	// UpdateDetails applies a partial update; empty fields are left untouched.
	UpdateDetails(ctx context.Context, id, fullName, email string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*entity.User, error)
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*entity.User, error)
}

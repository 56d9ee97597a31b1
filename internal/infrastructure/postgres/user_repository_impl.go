package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, COALESCE(refresh_token, ''), created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.FullName, u.PasswordHash, u.AvatarURL, u.CoverImageURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(username) = lower($1)
	`, username))
}

func (r *UserRepository) FindByIdentity(ctx context.Context, username, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 <> '' AND lower(username) = lower($1))
		   OR ($2 <> '' AND lower(email) = lower($2))
		LIMIT 1
	`, username, email))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id, passwordHash, time.Now())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token = NULLIF($2, ''), updated_at = $3
		WHERE id = $1
	`, id, token, time.Now())
	return err
}

// RotateRefreshToken is the compare-and-set that enforces single-use
// rotation: the update only lands when the stored token still equals the
// presented one. Per-row atomicity in Postgres serializes concurrent
// rotations, so exactly one of them can win.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, presented, next string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET refresh_token = $3, updated_at = $4
		WHERE id = $1 AND refresh_token = $2
	`, id, presented, next, time.Now())
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET full_name = CASE WHEN $2 <> '' THEN $2 ELSE full_name END,
		    email     = CASE WHEN $3 <> '' THEN lower($3) ELSE email END,
		    updated_at = $4
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, fullName, email, time.Now())
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET avatar_url = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, avatarURL, time.Now()))
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET cover_image_url = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, coverImageURL, time.Now()))
}

var _ repository.UserRepository = (*UserRepository)(nil)

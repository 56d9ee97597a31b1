package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
)

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

// WatchHistory joins the viewer's history rows to videos and their owners.
// Ordering by the stored position keeps the historical viewing order rather
// than whatever order the join produces.
func (r *VideoRepository) WatchHistory(ctx context.Context, userID string) ([]entity.WatchHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.title, v.thumbnail_url, v.duration, v.views,
		       o.full_name, o.username, o.avatar_url
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users o  ON o.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.position
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.WatchHistoryEntry, 0)
	for rows.Next() {
		var e entity.WatchHistoryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.ThumbnailURL, &e.Duration, &e.Views,
			&e.Owner.FullName, &e.Owner.Username, &e.Owner.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ repository.VideoRepository = (*VideoRepository)(nil)

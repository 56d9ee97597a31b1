package repository

import (
	"context"

	"github.com/vidhub/vidhub-api/internal/domain/entity"
)

// VideoRepository reads video rows for the watch-history projection.
type VideoRepository interface {
	// WatchHistory returns the viewer's watched videos joined with their
	// owners, in the order the videos were watched.
	WatchHistory(ctx context.Context, userID string) ([]entity.WatchHistoryEntry, error)
}

package application

import (
	"context"
	"errors"
	"strings"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
	"github.com/vidhub/vidhub-api/internal/domain/repository"
)

// ChannelService builds viewer-relative channel projections and the watch
// history view.
type ChannelService struct {
	Users   repository.UserRepository
	Subs    repository.SubscriptionRepository
	Videos  repository.VideoRepository
	Indexer *ChannelIndexer
}

func NewChannelService(users repository.UserRepository, subs repository.SubscriptionRepository, videos repository.VideoRepository, indexer *ChannelIndexer) *ChannelService {
	return &ChannelService{Users: users, Subs: subs, Videos: videos, Indexer: indexer}
}

// Profile aggregates the channel's public fields with its subscriber count
// and whether the viewer subscribes to it. The count and flag reflect the
// store at call time.
func (s *ChannelService) Profile(ctx context.Context, viewerID, username string) (*entity.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Username is missing")
	}

	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "Channel does not exist")
		}
		return nil, apperrors.Internal(err)
	}

	count, err := s.Subs.CountSubscribers(ctx, u.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	subscribed, err := s.Subs.IsSubscribed(ctx, viewerID, u.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &entity.ChannelProfile{
		FullName:         u.FullName,
		Username:         u.Username,
		SubscribersCount: count,
		IsSubscribed:     subscribed,
		AvatarURL:        u.AvatarURL,
		CoverImageURL:    u.CoverImageURL,
	}, nil
}

// WatchHistory returns the viewer's watched videos, each carrying its owner's
// public fields, preserving watch order.
func (s *ChannelService) WatchHistory(ctx context.Context, viewerID string) ([]entity.WatchHistoryEntry, error) {
	entries, err := s.Videos.WatchHistory(ctx, viewerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if entries == nil {
		entries = []entity.WatchHistoryEntry{}
	}
	return entries, nil
}

// Search queries the channel index by username or full name.
func (s *ChannelService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Search query is required")
	}
	hits, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return hits, nil
}

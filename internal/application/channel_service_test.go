package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhub/vidhub-api/internal/apperrors"
	"github.com/vidhub/vidhub-api/internal/domain/entity"
)

func TestChannelProfile(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ChannelService, *entity.User, *entity.User) {
		t.Helper()
		users := newMockUserRepo()
		channel := seedUser(t, users)
		viewer := &entity.User{Username: "viewer", Email: "viewer@example.com", FullName: "Viewer", PasswordHash: "x", AvatarURL: "a"}
		require.NoError(t, users.Create(ctx, viewer))

		subs := &mockSubsRepo{
			counts:     map[string]int64{channel.ID: 42},
			subscribed: map[string]bool{viewer.ID + "|" + channel.ID: true},
		}
		svc := NewChannelService(users, subs, &mockVideoRepo{}, nil)
		return svc, channel, viewer
	}

	t.Run("aggregates count and viewer subscription", func(t *testing.T) {
		svc, channel, viewer := setup(t)

		p, err := svc.Profile(ctx, viewer.ID, channel.Username)
		require.NoError(t, err)
		assert.Equal(t, channel.FullName, p.FullName)
		assert.Equal(t, channel.Username, p.Username)
		assert.Equal(t, int64(42), p.SubscribersCount)
		assert.True(t, p.IsSubscribed)
		assert.Equal(t, channel.AvatarURL, p.AvatarURL)
	})

	t.Run("isSubscribed is false for a non-subscriber", func(t *testing.T) {
		svc, channel, _ := setup(t)

		p, err := svc.Profile(ctx, "someone-else", channel.Username)
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.SubscribersCount)
		assert.False(t, p.IsSubscribed)
	})

	t.Run("username lookup is case-insensitive", func(t *testing.T) {
		svc, _, viewer := setup(t)
		p, err := svc.Profile(ctx, viewer.ID, "ADA")
		require.NoError(t, err)
		assert.Equal(t, "ada", p.Username)
	})

	t.Run("blank username is a validation error", func(t *testing.T) {
		svc, _, viewer := setup(t)
		_, err := svc.Profile(ctx, viewer.ID, "   ")
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, "Username is missing", err.Error())
	})

	t.Run("unknown channel is not found", func(t *testing.T) {
		svc, _, viewer := setup(t)
		_, err := svc.Profile(ctx, viewer.ID, "ghost")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, "Channel does not exist", err.Error())
	})
}

func TestWatchHistory(t *testing.T) {
	ctx := context.Background()

	owner := entity.VideoOwner{FullName: "Demo Creator", Username: "democreator", AvatarURL: "a"}
	entries := []entity.WatchHistoryEntry{
		{ID: "v1", Title: "first watched", Owner: owner},
		{ID: "v2", Title: "second watched", Owner: owner},
		{ID: "v3", Title: "third watched", Owner: owner},
	}

	videos := &mockVideoRepo{history: map[string][]entity.WatchHistoryEntry{"viewer-1": entries}}
	svc := NewChannelService(newMockUserRepo(), &mockSubsRepo{}, videos, nil)

	t.Run("preserves watch order", func(t *testing.T) {
		got, err := svc.WatchHistory(ctx, "viewer-1")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "v1", got[0].ID)
		assert.Equal(t, "v2", got[1].ID)
		assert.Equal(t, "v3", got[2].ID)
	})

	t.Run("each entry carries its owner", func(t *testing.T) {
		got, err := svc.WatchHistory(ctx, "viewer-1")
		require.NoError(t, err)
		for _, e := range got {
			assert.Equal(t, owner, e.Owner)
		}
	})

	t.Run("empty history is an empty slice, not nil", func(t *testing.T) {
		got, err := svc.WatchHistory(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestChannelSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewChannelService(newMockUserRepo(), &mockSubsRepo{}, &mockVideoRepo{}, nil)

	t.Run("blank query is a validation error", func(t *testing.T) {
		_, err := svc.Search(ctx, "   ", 10)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("without an index configured returns no hits", func(t *testing.T) {
		hits, err := svc.Search(ctx, "ada", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

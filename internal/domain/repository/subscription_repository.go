package repository

import "context"

// SubscriptionRepository reads subscription rows for channel aggregation.
// Subscriptions are written by another service.
type SubscriptionRepository interface {
	// CountSubscribers returns the exact number of subscriptions whose
	// channel is the given user at query time.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	// IsSubscribed reports whether subscriber currently subscribes to channel.
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

package entity

import "time"

// Subscription links a subscriber to a channel. Both sides reference users;
// a "channel" is just a user viewed as the target of subscriptions. This core
// only reads subscriptions, it never mutates them.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// ChannelProfile is the denormalized channel view: the channel's public
// fields plus the exact subscriber count and whether the viewer subscribes.
type ChannelProfile struct {
	FullName         string `json:"fullName"`
	Username         string `json:"username"`
	SubscribersCount int64  `json:"subscribersCount"`
	IsSubscribed     bool   `json:"isSubscribed"`
	AvatarURL        string `json:"avatarUrl"`
	CoverImageURL    string `json:"coverImageUrl,omitempty"`
}

package entity

import "time"

// Video is owned by another service; this core consumes it only for the
// watch-history projection.
type Video struct {
	ID           string
	OwnerID      string
	Title        string
	ThumbnailURL string
	Duration     float64
	Views        int64
	CreatedAt    time.Time
}

// VideoOwner is the owner projected down for embedding in watch-history
// entries. The owner join is 1:1, so it is a single object, not a list.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// WatchHistoryEntry is one video of a viewer's history with its owner
// embedded. Entries keep the order in which the videos were watched.
type WatchHistoryEntry struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	Owner        VideoOwner `json:"owner"`
}

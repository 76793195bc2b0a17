package domain

import "time"

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Story is a single ephemeral photo/video post attributed to one user.
// Liked and Viewed are client-local optimistic overlays; everything else is
// immutable once the story exists.
type Story struct {
	ID             string
	OwnerID        string
	OwnerName      string
	OwnerAvatarURL string
	MediaURL       string
	ThumbURL       string
	MediaKind      MediaKind
	CreatedAt      time.Time
	Liked          bool
	Viewed         bool
}

// StoryGroup is the per-user feed entry aggregating that user's current
// stories. Derived state, never persisted.
type StoryGroup struct {
	UserID         string
	UserName       string
	AvatarURL      string
	LatestThumbURL string
	HasUnseen      bool
}

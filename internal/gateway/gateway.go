// Package gateway defines the contract with the story backend. The server
// speaks the legacy action-parameter API; this package exposes it as typed
// calls so the rest of the core never sees envelopes or error codes.
package gateway

import (
	"context"
	"time"

	"github.com/appservices/hush-stories/internal/domain"
)

// StoryDTO is a story record as delivered by the server.
type StoryDTO struct {
	ID     string `json:"id"`
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Path   string `json:"path"`
	Thumb  string `json:"thumb"`
	Video  string `json:"video"`
	Time   int64  `json:"time"`
}

// ToDomain maps a server record onto the domain model. Liked and Viewed
// always start false; they are client-local overlays.
func (d StoryDTO) ToDomain() domain.Story {
	kind := domain.MediaKindImage
	if d.Video == "1" {
		kind = domain.MediaKindVideo
	}
	return domain.Story{
		ID:             d.ID,
		OwnerID:        d.UID,
		OwnerName:      d.Name,
		OwnerAvatarURL: d.Avatar,
		MediaURL:       d.Path,
		ThumbURL:       d.Thumb,
		MediaKind:      kind,
		CreatedAt:      time.Unix(d.Time, 0),
	}
}

// MediaUpload is the server-side location of an uploaded image.
type MediaUpload struct {
	Path  string
	Thumb string
}

//go:generate go run go.uber.org/mock/mockgen -source=gateway.go -destination=mocks/mock.go

type Client interface {
	// UploadMedia sends raw image bytes to the media-upload endpoint and
	// returns the stored media and thumbnail paths.
	UploadMedia(ctx context.Context, image []byte) (MediaUpload, error)
	// UploadStory creates a story from already-uploaded media and returns the
	// acting user's full story list as the server now sees it.
	UploadStory(ctx context.Context, userID, mediaPath, thumbPath string) ([]StoryDTO, error)
	// ViewStories returns the current story feed for the acting user.
	ViewStories(ctx context.Context, userID string) ([]StoryDTO, error)
	// MarkStoryViewed notifies the server that the acting user viewed a story.
	MarkStoryViewed(ctx context.Context, userID, storyID string) error
}

// Package upload coordinates publishing a story: image selection, the media
// upload, the create-story call, and merging the result into the story
// repository.
package upload

import (
	"context"
	"errors"

	"github.com/appservices/hush-stories/internal/domain"
)

type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateUploading
	StateUploaded
	StateStoryPublishing
	StateStoryPublished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "imageSelected"
	case StateUploading:
		return "uploading"
	case StateUploaded:
		return "uploaded"
	case StateStoryPublishing:
		return "storyPublishing"
	case StateStoryPublished:
		return "storyPublished"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when an operation is called from the wrong
// state, e.g. Publish before a successful Upload.
var ErrInvalidTransition = errors.New("invalid upload workflow transition")

//go:generate go run go.uber.org/mock/mockgen -source=upload.go -destination=mocks/mock.go

type Workflow interface {
	// SelectImage stages raw image bytes for upload. Idle -> ImageSelected.
	SelectImage(localRef string, image []byte) error

	// Upload sends the staged image to the media-upload endpoint.
	// ImageSelected -> Uploaded, or Failed; a failed upload is abandoned and
	// the caller must Reset and restart.
	Upload(ctx context.Context) error

	// Publish creates the story from the uploaded media, merges it into the
	// repository and returns the new story's index in the acting user's
	// sequence, which seeds the session opened right after.
	// Uploaded -> StoryPublished, or Failed. Exactly one create-story call
	// happens per successful media upload.
	Publish(ctx context.Context) (int, error)

	State() State
	Ticket() domain.UploadTicket

	// Reset abandons the current ticket and returns to Idle. Retrying always
	// re-uploads the media; there is no resume from Uploaded.
	Reset()
}

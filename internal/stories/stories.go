// Package stories owns the authoritative in-memory story state: every Story
// the feed knows about, grouped per owner, plus the derived per-user feed
// groups. All reads and writes against the network go through here.
package stories

import (
	"context"

	"github.com/appservices/hush-stories/internal/domain"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
)

// ErrNotFound is returned when a story or a user's story list is absent from
// current state.
var ErrNotFound = apperrors.ErrNotFound

//go:generate go run go.uber.org/mock/mockgen -source=stories.go -destination=mocks/mock.go

type Repository interface {
	// FetchFeed loads the current feed from the server, atomically replacing
	// the in-memory story set on success. Concurrent calls share a single
	// network request.
	FetchFeed(ctx context.Context) ([]domain.StoryGroup, error)

	// StoriesFor returns one owner's stories in server-delivered order,
	// oldest first. Fails with ErrNotFound when the owner has none.
	StoriesFor(userID string) ([]domain.Story, error)

	// MarkViewed flips the local viewed flag immediately and notifies the
	// server in the background. Notification failures are logged, never
	// rolled back.
	MarkViewed(storyID string)

	// ToggleLiked flips the local liked flag and returns the new value.
	// Like state is client-local only; no sync endpoint exists.
	ToggleLiked(storyID string) (bool, error)

	// AppendUploadedStory inserts a freshly uploaded story at the end of the
	// acting user's sequence and recomputes that user's group.
	AppendUploadedStory(story domain.Story)

	// DeleteStory removes a story from the backing list and recomputes the
	// owner's group.
	DeleteStory(storyID string) error

	// Groups returns the current per-user feed groups in server order.
	Groups() []domain.StoryGroup

	// Subscribe registers a callback invoked with the recomputed groups after
	// every story-set change. Callbacks are delivered from a single
	// goroutine, in change order.
	Subscribe(fn func(groups []domain.StoryGroup))

	// Close stops background delivery and waits for in-flight view
	// notifications to drain.
	Close()
}

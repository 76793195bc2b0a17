package uploadimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/gateway"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/internal/upload"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Gateway  gateway.Client
	Stories  stories.Repository
	AppState *appstate.State
	Logger   logger.Logger
}

type WorkflowImpl struct {
	Gateway  gateway.Client
	Stories  stories.Repository
	AppState *appstate.State
	Logger   logger.Logger

	mu     sync.Mutex
	state  upload.State
	image  []byte
	ticket domain.UploadTicket
}

func New(opts Opts) *WorkflowImpl {
	return &WorkflowImpl{
		Gateway:  opts.Gateway,
		Stories:  opts.Stories,
		AppState: opts.AppState,
		Logger:   opts.Logger.WithComponent("UploadWorkflow"),
		state:    upload.StateIdle,
	}
}

var _ upload.Workflow = (*WorkflowImpl)(nil)

func (w *WorkflowImpl) SelectImage(localRef string, image []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != upload.StateIdle {
		return upload.ErrInvalidTransition
	}
	if len(image) == 0 {
		return apperrors.ErrInvalidInput
	}

	w.image = image
	w.ticket = domain.UploadTicket{
		LocalImageRef: localRef,
		State:         domain.UploadStatePending,
	}
	w.state = upload.StateImageSelected
	return nil
}

func (w *WorkflowImpl) Upload(ctx context.Context) error {
	w.mu.Lock()
	if w.state != upload.StateImageSelected {
		w.mu.Unlock()
		return upload.ErrInvalidTransition
	}
	w.state = upload.StateUploading
	image := w.image
	w.mu.Unlock()

	media, err := w.Gateway.UploadMedia(ctx, image)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = upload.StateFailed
		w.ticket.State = domain.UploadStateFailed
		w.Logger.Error("Media upload failed", "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	w.ticket.MediaPath = media.Path
	w.ticket.ThumbPath = media.Thumb
	w.ticket.State = domain.UploadStateUploaded
	w.state = upload.StateUploaded
	w.Logger.Info("Media uploaded", "path", media.Path)
	return nil
}

func (w *WorkflowImpl) Publish(ctx context.Context) (int, error) {
	user, ok := w.AppState.CurrentUser()
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}

	w.mu.Lock()
	if w.state != upload.StateUploaded {
		w.mu.Unlock()
		return 0, upload.ErrInvalidTransition
	}
	// Leaving Uploaded here is what guarantees a single create-story call per
	// media upload: a failed publish lands in Failed and retry restarts from
	// Idle with a fresh upload.
	w.state = upload.StateStoryPublishing
	mediaPath, thumbPath := w.ticket.MediaPath, w.ticket.ThumbPath
	w.mu.Unlock()

	dtos, err := w.Gateway.UploadStory(ctx, user.ID, mediaPath, thumbPath)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		// The uploaded media stays on the server; accepted limitation.
		w.state = upload.StateFailed
		w.ticket.State = domain.UploadStateFailed
		w.Logger.Error("Story publish failed", "error", err)
		return 0, err
	}
	if len(dtos) == 0 {
		w.state = upload.StateFailed
		w.ticket.State = domain.UploadStateFailed
		return 0, apperrors.New("publish response contained no stories")
	}

	created := pickCreated(dtos, mediaPath)
	w.Stories.AppendUploadedStory(created.ToDomain())

	seq, err := w.Stories.StoriesFor(user.ID)
	if err != nil {
		// Cannot happen right after an append, but fail loudly if it does.
		w.state = upload.StateFailed
		return 0, err
	}

	w.state = upload.StateStoryPublished
	w.ticket.State = domain.UploadStateStoryCreated
	w.image = nil
	w.Logger.Info("Story published", "story_id", created.ID)
	return len(seq) - 1, nil
}

// pickCreated finds the freshly created story in the server's response. The
// endpoint returns the full list; the new story is the one carrying our media
// path, or failing that the newest entry.
func pickCreated(dtos []gateway.StoryDTO, mediaPath string) gateway.StoryDTO {
	for _, dto := range dtos {
		if dto.Path == mediaPath {
			return dto
		}
	}
	return dtos[len(dtos)-1]
}

func (w *WorkflowImpl) State() upload.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *WorkflowImpl) Ticket() domain.UploadTicket {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticket
}

func (w *WorkflowImpl) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = upload.StateIdle
	w.image = nil
	w.ticket = domain.UploadTicket{}
}

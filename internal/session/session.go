// Package session drives a single story-viewing session: one owner's story
// sequence, a cursor, and the view/delete side effects that flow back through
// the story repository.
package session

import (
	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/stories"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	"go.uber.org/fx"
)

type State int

const (
	StateIdle State = iota
	StateViewing
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateViewing:
		return "viewing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type Opts struct {
	fx.In

	Stories  stories.Repository
	AppState *appstate.State
	Logger   logger.Logger
}

// Factory builds viewing sessions against the shared story repository.
type Factory struct {
	Stories  stories.Repository
	AppState *appstate.State
	Logger   logger.Logger
}

func NewFactory(opts Opts) *Factory {
	return &Factory{
		Stories:  opts.Stories,
		AppState: opts.AppState,
		Logger:   opts.Logger.WithComponent("StorySession"),
	}
}

// Session is the state of actively viewing one owner's story sequence.
// A session belongs to a single viewer; it is not safe for concurrent use.
type Session struct {
	repo    stories.Repository
	log     logger.Logger
	ownerID string
	own     bool

	seq     []domain.Story
	index   int
	state   State
	visited map[string]bool
}

// Start opens a session over ownerID's stories at index 0. It fails with
// stories.ErrNotFound, without creating any state, when the owner currently
// has no stories; another client may have deleted the last one between feed
// load and tap.
func (f *Factory) Start(ownerID string) (*Session, error) {
	return f.StartAt(ownerID, 0)
}

// StartAt opens a session with the cursor on the given index, clamped to the
// sequence. Used after an upload so the viewer opens on the new story.
func (f *Factory) StartAt(ownerID string, index int) (*Session, error) {
	seq, err := f.Stories.StoriesFor(ownerID)
	if err != nil {
		return nil, err
	}

	if index < 0 {
		index = 0
	}
	if index >= len(seq) {
		index = len(seq) - 1
	}

	own := false
	if user, ok := f.AppState.CurrentUser(); ok {
		own = user.ID == ownerID
	}

	s := &Session{
		repo:    f.Stories,
		log:     f.Logger,
		ownerID: ownerID,
		own:     own,
		seq:     seq,
		index:   index,
		state:   StateViewing,
		visited: make(map[string]bool, len(seq)),
	}
	s.markVisited()
	return s, nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Index() int { return s.index }

func (s *Session) Count() int { return len(s.seq) }

func (s *Session) OwnerID() string { return s.ownerID }

// IsOwnSession reports whether the viewer is looking at their own stories.
func (s *Session) IsOwnSession() bool { return s.own }

// CanReport and CanSendMessages mirror the product rules: both are disabled
// when viewing your own story.
func (s *Session) CanReport() bool { return !s.own }

func (s *Session) CanSendMessages() bool { return !s.own }

// Current returns the story under the cursor.
func (s *Session) Current() (domain.Story, error) {
	if s.state != StateViewing {
		return domain.Story{}, apperrors.ErrNotFound
	}
	return s.seq[s.index], nil
}

// Advance moves the cursor forward one story. Tap-driven only, forward only,
// no wrap: advancing past the last story finishes the session.
func (s *Session) Advance() State {
	if s.state != StateViewing {
		return s.state
	}
	if s.index+1 < len(s.seq) {
		s.index++
		s.markVisited()
		return s.state
	}
	s.state = StateFinished
	return s.state
}

// markVisited registers the view for the story under the cursor, once per
// story per session. Fire-and-forget; never blocks the caller.
func (s *Session) markVisited() {
	story := s.seq[s.index]
	if s.visited[story.ID] {
		return
	}
	s.visited[story.ID] = true
	s.repo.MarkViewed(story.ID)
}

// Delete removes the story under the cursor. Only own-story sessions may
// delete; deleting the last remaining story finishes the session.
func (s *Session) Delete() error {
	if s.state != StateViewing {
		return apperrors.ErrNotFound
	}
	if !s.own {
		return apperrors.ErrUnauthorized
	}

	story := s.seq[s.index]
	if err := s.repo.DeleteStory(story.ID); err != nil {
		return err
	}

	seq, err := s.repo.StoriesFor(s.ownerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.seq = nil
			s.state = StateFinished
			return nil
		}
		return err
	}

	s.seq = seq
	if s.index >= len(seq) {
		s.index = len(seq) - 1
	}
	s.markVisited()
	return nil
}

// Dismiss releases the session's data and returns to idle. Always available;
// an outstanding view notification completes on its own and its result is
// discarded.
func (s *Session) Dismiss() {
	s.state = StateIdle
	s.seq = nil
	s.visited = nil
	s.index = 0
}

// Package feed derives the story feed a screen renders: per-user groups with
// the viewer's own group pinned first. Push-only consumer of the story
// repository.
package feed

import (
	"sync"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Stories  stories.Repository
	AppState *appstate.State
	Logger   logger.Logger
}

type Model struct {
	appState *appstate.State
	logger   logger.Logger

	mu      sync.RWMutex
	groups  []domain.StoryGroup
	updates chan []domain.StoryGroup
}

func New(opts Opts) *Model {
	m := &Model{
		appState: opts.AppState,
		logger:   opts.Logger.WithComponent("FeedModel"),
		updates:  make(chan []domain.StoryGroup, 16),
	}
	// The repository delivers from a single goroutine, so apply never races
	// with itself and a render never sees a list inconsistent with the story
	// set it came from.
	opts.Stories.Subscribe(m.apply)
	return m
}

func (m *Model) apply(groups []domain.StoryGroup) {
	ordered := m.Order(groups)

	m.mu.Lock()
	m.groups = ordered
	m.mu.Unlock()

	select {
	case m.updates <- ordered:
	default:
		m.logger.Debug("Feed update channel full, consumer will catch up via Groups")
	}
}

// Order pins the acting user's group first regardless of recency and keeps
// everyone else in server-delivered order.
func (m *Model) Order(groups []domain.StoryGroup) []domain.StoryGroup {
	user, ok := m.appState.CurrentUser()
	if !ok {
		out := make([]domain.StoryGroup, len(groups))
		copy(out, groups)
		return out
	}

	out := make([]domain.StoryGroup, 0, len(groups))
	for _, g := range groups {
		if g.UserID == user.ID {
			out = append(out, g)
			break
		}
	}
	for _, g := range groups {
		if g.UserID != user.ID {
			out = append(out, g)
		}
	}
	return out
}

// Groups returns the current ordered feed snapshot.
func (m *Model) Groups() []domain.StoryGroup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.StoryGroup, len(m.groups))
	copy(out, m.groups)
	return out
}

// Updates streams ordered feed snapshots as the story set changes. Slow
// consumers miss intermediate snapshots, never the latest state.
func (m *Model) Updates() <-chan []domain.StoryGroup {
	return m.updates
}

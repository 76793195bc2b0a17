package storiesimpl

import (
	"sync"
	"time"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/gateway"
	"github.com/appservices/hush-stories/internal/repositories/viewlog"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

type Opts struct {
	fx.In

	Gateway gateway.Client
	ViewLog viewlog.Repository
	State   *appstate.State
	Logger  logger.Logger
}

type RepositoryImpl struct {
	Gateway gateway.Client
	ViewLog viewlog.Repository
	State   *appstate.State
	Logger  logger.Logger

	flight singleflight.Group

	mu      sync.RWMutex
	order   []string                   // owner ids in server-delivered order
	byOwner map[string][]*domain.Story // oldest first, as the server sends them
	byID    map[string]*domain.Story
	subs    []func([]domain.StoryGroup)
	closed  bool

	changes chan []domain.StoryGroup
	views   chan viewNotification
	pool    *ants.Pool
	wg      sync.WaitGroup
}

type viewNotification struct {
	userID  string
	storyID string
}

func New(opts Opts) (*RepositoryImpl, error) {
	// A single worker keeps view notifications in visit order.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	r := &RepositoryImpl{
		Gateway: opts.Gateway,
		ViewLog: opts.ViewLog,
		State:   opts.State,
		Logger:  opts.Logger.WithComponent("StoryRepo"),
		byOwner: make(map[string][]*domain.Story),
		byID:    make(map[string]*domain.Story),
		changes: make(chan []domain.StoryGroup, 64),
		views:   make(chan viewNotification, 64),
		pool:    pool,
	}

	r.wg.Add(2)
	go r.deliverChanges()
	go r.dispatchViews()

	return r, nil
}

var _ stories.Repository = (*RepositoryImpl)(nil)

func (r *RepositoryImpl) Subscribe(fn func(groups []domain.StoryGroup)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// publish hands the recomputed groups to the delivery goroutine. Must be
// called with r.mu held so closed-channel checks stay consistent.
func (r *RepositoryImpl) publishLocked(groups []domain.StoryGroup) {
	if r.closed {
		return
	}
	select {
	case r.changes <- groups:
	default:
		r.Logger.Warn("Feed update dropped, subscriber is lagging")
	}
}

func (r *RepositoryImpl) deliverChanges() {
	defer r.wg.Done()
	for groups := range r.changes {
		r.mu.RLock()
		subs := make([]func([]domain.StoryGroup), len(r.subs))
		copy(subs, r.subs)
		r.mu.RUnlock()

		for _, fn := range subs {
			fn(groups)
		}
	}
}

func (r *RepositoryImpl) dispatchViews() {
	defer r.wg.Done()
	for n := range r.views {
		notification := n
		if err := r.pool.Submit(func() { r.notifyViewed(notification) }); err != nil {
			r.Logger.Warn("Failed to submit view notification", "story_id", notification.storyID, "error", err)
		}
	}
}

func (r *RepositoryImpl) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.changes)
	close(r.views)
	r.mu.Unlock()

	r.wg.Wait()
	if err := r.pool.ReleaseTimeout(5 * time.Second); err != nil {
		r.Logger.Warn("View notification pool did not drain in time", "error", err)
	}
}

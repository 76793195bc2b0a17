// Package appstate holds the process-wide session context that the legacy
// client kept as ambient globals: the acting user and the "story feed needs
// refresh" flag. It is constructed once and injected, so parallel test
// instances never share state.
package appstate

import (
	"sync"

	"github.com/appservices/hush-stories/internal/domain"
)

type State struct {
	mu        sync.RWMutex
	user      domain.User
	loggedIn  bool
	feedStale bool
}

func New() *State {
	return &State{}
}

func (s *State) SetCurrentUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.loggedIn = true
}

// CurrentUser returns the acting user and whether anyone is signed in.
func (s *State) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.loggedIn
}

func (s *State) ClearCurrentUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = domain.User{}
	s.loggedIn = false
}

// MarkFeedStale flags that the story feed should be refetched before it is
// next shown.
func (s *State) MarkFeedStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedStale = true
}

// ConsumeFeedStale reads and clears the refresh flag in one step.
func (s *State) ConsumeFeedStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stale := s.feedStale
	s.feedStale = false
	return stale
}

func (s *State) FeedStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedStale
}

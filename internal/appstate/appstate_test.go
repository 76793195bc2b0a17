package appstate

import (
	"testing"

	"github.com/appservices/hush-stories/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCurrentUser_Lifecycle(t *testing.T) {
	s := New()

	_, ok := s.CurrentUser()
	assert.False(t, ok)

	s.SetCurrentUser(domain.User{ID: "me", Name: "Me"})
	user, ok := s.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "me", user.ID)

	s.ClearCurrentUser()
	_, ok = s.CurrentUser()
	assert.False(t, ok)
}

func TestFeedStale_ConsumeClears(t *testing.T) {
	s := New()
	assert.False(t, s.FeedStale())

	s.MarkFeedStale()
	assert.True(t, s.FeedStale())

	assert.True(t, s.ConsumeFeedStale())
	assert.False(t, s.FeedStale())
	assert.False(t, s.ConsumeFeedStale())
}

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushRepo lets the test stand in for the repository's delivery goroutine.
type pushRepo struct {
	fn func([]domain.StoryGroup)
}

func (p *pushRepo) FetchFeed(ctx context.Context) ([]domain.StoryGroup, error) { return nil, nil }

func (p *pushRepo) StoriesFor(userID string) ([]domain.Story, error) { return nil, stories.ErrNotFound }

func (p *pushRepo) MarkViewed(storyID string) {}

func (p *pushRepo) ToggleLiked(storyID string) (bool, error) { return false, nil }

func (p *pushRepo) AppendUploadedStory(story domain.Story) {}

func (p *pushRepo) DeleteStory(storyID string) error { return nil }

func (p *pushRepo) Groups() []domain.StoryGroup { return nil }

func (p *pushRepo) Subscribe(fn func([]domain.StoryGroup)) { p.fn = fn }

func (p *pushRepo) Close() {}

var _ stories.Repository = (*pushRepo)(nil)

func newModel(actingUserID string) (*Model, *pushRepo) {
	repo := &pushRepo{}
	state := appstate.New()
	if actingUserID != "" {
		state.SetCurrentUser(domain.User{ID: actingUserID})
	}
	m := New(Opts{
		Stories:  repo,
		AppState: state,
		Logger:   logger.New(logger.Opts{Env: "production"}),
	})
	return m, repo
}

func groupsFor(ids ...string) []domain.StoryGroup {
	out := make([]domain.StoryGroup, len(ids))
	for i, id := range ids {
		out[i] = domain.StoryGroup{UserID: id}
	}
	return out
}

func TestOrder_OwnGroupFirst(t *testing.T) {
	m, _ := newModel("me")

	ordered := m.Order(groupsFor("alice", "bob", "me", "carol"))

	require.Len(t, ordered, 4)
	assert.Equal(t, "me", ordered[0].UserID)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{
		ordered[1].UserID, ordered[2].UserID, ordered[3].UserID,
	})
}

func TestOrder_NoOwnGroup_KeepsServerOrder(t *testing.T) {
	m, _ := newModel("me")

	ordered := m.Order(groupsFor("alice", "bob"))
	require.Len(t, ordered, 2)
	assert.Equal(t, "alice", ordered[0].UserID)
	assert.Equal(t, "bob", ordered[1].UserID)
}

func TestOrder_NoSignedInUser(t *testing.T) {
	m, _ := newModel("")

	ordered := m.Order(groupsFor("alice", "bob"))
	require.Len(t, ordered, 2)
	assert.Equal(t, "alice", ordered[0].UserID)
}

func TestApply_UpdatesSnapshotAndStream(t *testing.T) {
	m, repo := newModel("me")
	require.NotNil(t, repo.fn, "model must subscribe on construction")

	repo.fn(groupsFor("alice", "me"))

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "me", groups[0].UserID)

	select {
	case streamed := <-m.Updates():
		require.Len(t, streamed, 2)
		assert.Equal(t, "me", streamed[0].UserID)
	case <-time.After(time.Second):
		t.Fatal("no update streamed")
	}
}

func TestApply_LaterUpdateWins(t *testing.T) {
	m, repo := newModel("me")

	repo.fn(groupsFor("alice"))
	repo.fn(groupsFor("alice", "bob"))

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "bob", groups[1].UserID)
}

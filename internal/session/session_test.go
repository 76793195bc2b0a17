package session

import (
	"context"
	"testing"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/stories"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory stories.Repository that records MarkViewed calls
// in order.
type fakeRepo struct {
	seqs        map[string][]domain.Story
	viewedOrder []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{seqs: make(map[string][]domain.Story)}
}

func (f *fakeRepo) FetchFeed(ctx context.Context) ([]domain.StoryGroup, error) { return nil, nil }

func (f *fakeRepo) StoriesFor(userID string) ([]domain.Story, error) {
	seq, ok := f.seqs[userID]
	if !ok || len(seq) == 0 {
		return nil, stories.ErrNotFound
	}
	out := make([]domain.Story, len(seq))
	copy(out, seq)
	return out, nil
}

func (f *fakeRepo) MarkViewed(storyID string) {
	f.viewedOrder = append(f.viewedOrder, storyID)
}

func (f *fakeRepo) ToggleLiked(storyID string) (bool, error) { return false, nil }

func (f *fakeRepo) AppendUploadedStory(story domain.Story) {
	f.seqs[story.OwnerID] = append(f.seqs[story.OwnerID], story)
}

func (f *fakeRepo) DeleteStory(storyID string) error {
	for owner, seq := range f.seqs {
		for i, s := range seq {
			if s.ID == storyID {
				f.seqs[owner] = append(seq[:i], seq[i+1:]...)
				return nil
			}
		}
	}
	return stories.ErrNotFound
}

func (f *fakeRepo) Groups() []domain.StoryGroup { return nil }

func (f *fakeRepo) Subscribe(fn func([]domain.StoryGroup)) {}

func (f *fakeRepo) Close() {}

var _ stories.Repository = (*fakeRepo)(nil)

func newFactory(repo *fakeRepo, actingUserID string) *Factory {
	state := appstate.New()
	state.SetCurrentUser(domain.User{ID: actingUserID})
	return NewFactory(Opts{
		Stories:  repo,
		AppState: state,
		Logger:   logger.New(logger.Opts{Env: "production"}),
	})
}

func seed(repo *fakeRepo, ownerID string, ids ...string) {
	for _, id := range ids {
		repo.seqs[ownerID] = append(repo.seqs[ownerID], domain.Story{ID: id, OwnerID: ownerID})
	}
}

func TestStart_NoStories_NotFound(t *testing.T) {
	repo := newFakeRepo()
	f := newFactory(repo, "me")

	s, err := f.Start("ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Nil(t, s)
	assert.Empty(t, repo.viewedOrder)
}

func TestStart_MarksFirstStoryViewed(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0", "s1")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, []string{"s0"}, repo.viewedOrder)
}

func TestAdvance_VisitsAllThenFinishes(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0", "s1", "s2")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)

	assert.Equal(t, StateViewing, s.Advance())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, StateViewing, s.Advance())
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, StateFinished, s.Advance())

	assert.Equal(t, []string{"s0", "s1", "s2"}, repo.viewedOrder)
}

func TestAdvance_AfterFinished_StaysFinished(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)

	assert.Equal(t, StateFinished, s.Advance())
	assert.Equal(t, StateFinished, s.Advance())
	assert.Equal(t, []string{"s0"}, repo.viewedOrder)
}

func TestStartAt_ClampsIndex(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "me", "s0", "s1")
	f := newFactory(repo, "me")

	s, err := f.StartAt("me", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index())

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "s1", current.ID)
}

func TestDelete_OnlyStory_Finishes(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "me", "s0")
	f := newFactory(repo, "me")

	s, err := f.Start("me")
	require.NoError(t, err)
	require.True(t, s.IsOwnSession())

	require.NoError(t, s.Delete())
	assert.Equal(t, StateFinished, s.State())
	_, err = repo.StoriesFor("me")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDelete_MiddleStory_StaysViewing(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "me", "s0", "s1", "s2")
	f := newFactory(repo, "me")

	s, err := f.Start("me")
	require.NoError(t, err)
	s.Advance() // on s1

	require.NoError(t, s.Delete())
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, 1, s.Index())

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "s2", current.ID)
	// s2 slid under the cursor and counts as visited now.
	assert.Equal(t, []string{"s0", "s1", "s2"}, repo.viewedOrder)
}

func TestDelete_LastIndex_ClampsBack(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "me", "s0", "s1")
	f := newFactory(repo, "me")

	s, err := f.Start("me")
	require.NoError(t, err)
	s.Advance() // on s1

	require.NoError(t, s.Delete())
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, 0, s.Index())

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "s0", current.ID)
	// s0 was already visited, no second MarkViewed for it.
	assert.Equal(t, []string{"s0", "s1"}, repo.viewedOrder)
}

func TestDelete_NotOwnSession_Rejected(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)
	assert.False(t, s.IsOwnSession())

	err = s.Delete()
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, StateViewing, s.State())
}

func TestMarkViewed_OncePerStoryPerSession(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0", "s1")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)
	s.Advance()
	s.Advance() // finished

	assert.Equal(t, []string{"s0", "s1"}, repo.viewedOrder)
}

func TestDismiss_ReleasesSession(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "alice", "s0", "s1")
	f := newFactory(repo, "me")

	s, err := f.Start("alice")
	require.NoError(t, err)

	s.Dismiss()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, s.Count())

	_, err = s.Current()
	assert.Error(t, err)
}

func TestCapabilities_OwnSession(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, "me", "s0")
	f := newFactory(repo, "me")

	s, err := f.Start("me")
	require.NoError(t, err)
	assert.True(t, s.IsOwnSession())
	assert.False(t, s.CanReport())
	assert.False(t, s.CanSendMessages())
}

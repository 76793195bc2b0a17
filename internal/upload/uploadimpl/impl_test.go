package uploadimpl

import (
	"context"
	"testing"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/gateway"
	mock_gateway "github.com/appservices/hush-stories/internal/gateway/mocks"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/internal/upload"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeStories records appends and serves story sequences.
type fakeStories struct {
	seqs     map[string][]domain.Story
	appended []domain.Story
}

func newFakeStories() *fakeStories {
	return &fakeStories{seqs: make(map[string][]domain.Story)}
}

func (f *fakeStories) FetchFeed(ctx context.Context) ([]domain.StoryGroup, error) { return nil, nil }

func (f *fakeStories) StoriesFor(userID string) ([]domain.Story, error) {
	seq, ok := f.seqs[userID]
	if !ok || len(seq) == 0 {
		return nil, stories.ErrNotFound
	}
	return append([]domain.Story(nil), seq...), nil
}

func (f *fakeStories) MarkViewed(storyID string) {}

func (f *fakeStories) ToggleLiked(storyID string) (bool, error) { return false, nil }

func (f *fakeStories) AppendUploadedStory(story domain.Story) {
	f.appended = append(f.appended, story)
	f.seqs[story.OwnerID] = append(f.seqs[story.OwnerID], story)
}

func (f *fakeStories) DeleteStory(storyID string) error { return nil }

func (f *fakeStories) Groups() []domain.StoryGroup { return nil }

func (f *fakeStories) Subscribe(fn func([]domain.StoryGroup)) {}

func (f *fakeStories) Close() {}

var _ stories.Repository = (*fakeStories)(nil)

func newWorkflow(t *testing.T) (*WorkflowImpl, *mock_gateway.MockClient, *fakeStories) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gw := mock_gateway.NewMockClient(ctrl)
	repo := newFakeStories()

	state := appstate.New()
	state.SetCurrentUser(domain.User{ID: "me"})

	w := New(Opts{
		Gateway:  gw,
		Stories:  repo,
		AppState: state,
		Logger:   logger.New(logger.Opts{Env: "production"}),
	})
	return w, gw, repo
}

func TestSelectImage_Transitions(t *testing.T) {
	w, _, _ := newWorkflow(t)
	assert.Equal(t, upload.StateIdle, w.State())

	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))
	assert.Equal(t, upload.StateImageSelected, w.State())
	assert.Equal(t, domain.UploadStatePending, w.Ticket().State)

	// Selecting again without a reset is a misuse.
	assert.ErrorIs(t, w.SelectImage("other.jpg", []byte("img")), upload.ErrInvalidTransition)
}

func TestSelectImage_EmptyImage(t *testing.T) {
	w, _, _ := newWorkflow(t)
	assert.ErrorIs(t, w.SelectImage("local.jpg", nil), apperrors.ErrInvalidInput)
}

func TestUpload_FailureNeverPublishes(t *testing.T) {
	w, gw, repo := newWorkflow(t)
	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))

	gw.EXPECT().UploadMedia(gomock.Any(), []byte("img")).
		Return(gateway.MediaUpload{}, apperrors.ErrNetworkUnavailable)
	// No UploadStory expectation: a create-story call here fails the test.

	err := w.Upload(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUploadFailed(err))
	assert.Equal(t, upload.StateFailed, w.State())
	assert.Equal(t, domain.UploadStateFailed, w.Ticket().State)

	// Publish from Failed is rejected; retry must restart from Idle.
	_, err = w.Publish(context.Background())
	assert.ErrorIs(t, err, upload.ErrInvalidTransition)
	assert.Empty(t, repo.appended)
}

func TestUploadPublish_HappyPath(t *testing.T) {
	w, gw, repo := newWorkflow(t)
	repo.seqs["me"] = []domain.Story{{ID: "old", OwnerID: "me"}}

	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))

	gw.EXPECT().UploadMedia(gomock.Any(), []byte("img")).
		Return(gateway.MediaUpload{Path: "media-new", Thumb: "thumb-new"}, nil)
	require.NoError(t, w.Upload(context.Background()))
	assert.Equal(t, upload.StateUploaded, w.State())
	assert.Equal(t, "media-new", w.Ticket().MediaPath)

	gw.EXPECT().UploadStory(gomock.Any(), "me", "media-new", "thumb-new").
		Return([]gateway.StoryDTO{
			{ID: "old", UID: "me", Path: "media-old"},
			{ID: "new", UID: "me", Path: "media-new"},
		}, nil).
		Times(1)

	index, err := w.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, upload.StateStoryPublished, w.State())
	assert.Equal(t, domain.UploadStateStoryCreated, w.Ticket().State)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, "new", repo.appended[0].ID)
	// The new story's index seeds the session opened right after.
	assert.Equal(t, 1, index)

	seq, err := repo.StoriesFor("me")
	require.NoError(t, err)
	assert.Equal(t, "new", seq[index].ID)
}

func TestPublish_FailureNoDuplicateCreate(t *testing.T) {
	w, gw, repo := newWorkflow(t)
	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))

	gw.EXPECT().UploadMedia(gomock.Any(), gomock.Any()).
		Return(gateway.MediaUpload{Path: "media-new", Thumb: "thumb-new"}, nil)
	require.NoError(t, w.Upload(context.Background()))

	gw.EXPECT().UploadStory(gomock.Any(), "me", "media-new", "thumb-new").
		Return(nil, apperrors.NewServerRejected(3, "storage full")).
		Times(1)

	_, err := w.Publish(context.Background())
	require.Error(t, err)
	assert.Equal(t, upload.StateFailed, w.State())

	// No resume from Uploaded: the second Publish is rejected without
	// another create-story call.
	_, err = w.Publish(context.Background())
	assert.ErrorIs(t, err, upload.ErrInvalidTransition)
	assert.Empty(t, repo.appended)
}

func TestPublish_BeforeUpload_Rejected(t *testing.T) {
	w, _, _ := newWorkflow(t)
	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))

	_, err := w.Publish(context.Background())
	assert.ErrorIs(t, err, upload.ErrInvalidTransition)
}

func TestReset_RestartsFromIdle(t *testing.T) {
	w, gw, _ := newWorkflow(t)
	require.NoError(t, w.SelectImage("local.jpg", []byte("img")))

	gw.EXPECT().UploadMedia(gomock.Any(), gomock.Any()).
		Return(gateway.MediaUpload{}, apperrors.ErrNetworkUnavailable)
	require.Error(t, w.Upload(context.Background()))

	w.Reset()
	assert.Equal(t, upload.StateIdle, w.State())
	assert.Equal(t, domain.UploadTicket{}, w.Ticket())

	require.NoError(t, w.SelectImage("retry.jpg", []byte("img2")))
	assert.Equal(t, upload.StateImageSelected, w.State())
}

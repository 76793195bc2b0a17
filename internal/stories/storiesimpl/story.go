package storiesimpl

import (
	"context"
	"time"

	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/repositories/viewlog"
	"github.com/appservices/hush-stories/internal/stories"
)

func (r *RepositoryImpl) StoriesFor(userID string) ([]domain.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seq, ok := r.byOwner[userID]
	if !ok || len(seq) == 0 {
		return nil, stories.ErrNotFound
	}

	out := make([]domain.Story, len(seq))
	for i, s := range seq {
		out[i] = *s
	}
	return out, nil
}

func (r *RepositoryImpl) MarkViewed(storyID string) {
	user, ok := r.State.CurrentUser()
	if !ok {
		return
	}

	r.mu.Lock()
	story, exists := r.byID[storyID]
	if !exists {
		r.mu.Unlock()
		r.Logger.Debug("MarkViewed for unknown story", "story_id", storyID)
		return
	}
	if story.Viewed {
		// Already flagged; the server was told once, that is enough.
		r.mu.Unlock()
		return
	}
	story.Viewed = true
	groups := r.groupsLocked()
	r.publishLocked(groups)

	if r.closed {
		r.mu.Unlock()
		return
	}
	select {
	case r.views <- viewNotification{userID: user.ID, storyID: storyID}:
	default:
		r.Logger.Warn("View notification queue full, dropping", "story_id", storyID)
	}
	r.mu.Unlock()
}

// notifyViewed runs on the notification worker. Failures are logged and
// reported nowhere else; the local flag is never rolled back.
func (r *RepositoryImpl) notifyViewed(n viewNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.Gateway.MarkStoryViewed(ctx, n.userID, n.storyID); err != nil {
		r.Logger.Warn("View notification failed", "story_id", n.storyID, "error", err)
	}

	if err := r.ViewLog.Create(ctx, viewlog.Entry{UserID: n.userID, StoryID: n.storyID}); err != nil {
		r.Logger.Warn("Failed to persist view log entry", "story_id", n.storyID, "error", err)
	}
}

func (r *RepositoryImpl) ToggleLiked(storyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	story, exists := r.byID[storyID]
	if !exists {
		return false, stories.ErrNotFound
	}
	story.Liked = !story.Liked
	return story.Liked, nil
}

func (r *RepositoryImpl) AppendUploadedStory(story domain.Story) {
	r.mu.Lock()

	if _, seen := r.byOwner[story.OwnerID]; !seen {
		r.order = append(r.order, story.OwnerID)
	}
	s := story
	r.byOwner[s.OwnerID] = append(r.byOwner[s.OwnerID], &s)
	r.byID[s.ID] = &s

	groups := r.groupsLocked()
	r.publishLocked(groups)
	r.mu.Unlock()

	r.State.MarkFeedStale()
}

func (r *RepositoryImpl) DeleteStory(storyID string) error {
	r.mu.Lock()

	story, exists := r.byID[storyID]
	if !exists {
		r.mu.Unlock()
		return stories.ErrNotFound
	}

	delete(r.byID, storyID)
	seq := r.byOwner[story.OwnerID]
	for i, s := range seq {
		if s.ID == storyID {
			seq = append(seq[:i], seq[i+1:]...)
			break
		}
	}
	if len(seq) == 0 {
		delete(r.byOwner, story.OwnerID)
		for i, ownerID := range r.order {
			if ownerID == story.OwnerID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	} else {
		r.byOwner[story.OwnerID] = seq
	}

	groups := r.groupsLocked()
	r.publishLocked(groups)
	r.mu.Unlock()

	r.State.MarkFeedStale()
	return nil
}

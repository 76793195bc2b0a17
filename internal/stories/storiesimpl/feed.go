package storiesimpl

import (
	"context"

	"github.com/appservices/hush-stories/internal/domain"
	"github.com/appservices/hush-stories/internal/gateway"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
)

// feedKey is the single-flight key for feed fetches. The feed is singleton
// per signed-in user, so one global key is enough.
const feedKey = "feed"

func (r *RepositoryImpl) FetchFeed(ctx context.Context) ([]domain.StoryGroup, error) {
	user, ok := r.State.CurrentUser()
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	v, err, shared := r.flight.Do(feedKey, func() (interface{}, error) {
		dtos, err := r.Gateway.ViewStories(ctx, user.ID)
		if err != nil {
			// Prior state stays untouched on failure.
			return nil, err
		}
		viewed := r.loadViewedOverlay(ctx, user.ID)
		return r.replaceAll(dtos, viewed), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.Logger.Debug("Feed fetch coalesced with an in-flight request")
	}
	return v.([]domain.StoryGroup), nil
}

func (r *RepositoryImpl) Groups() []domain.StoryGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groupsLocked()
}

// loadViewedOverlay restores the acting user's persisted viewed-story ids so
// HasUnseen badges survive a restart. Best effort: a failed read only means
// badges reset.
func (r *RepositoryImpl) loadViewedOverlay(ctx context.Context, userID string) map[string]bool {
	ids, err := r.ViewLog.GetStoryIDs(ctx, userID)
	if err != nil {
		r.Logger.Warn("Failed to load view log, viewed flags reset", "error", err)
		return nil
	}
	viewed := make(map[string]bool, len(ids))
	for _, id := range ids {
		viewed[id] = true
	}
	return viewed
}

// replaceAll swaps the entire story set for the server's, reapplying the
// viewed overlay, and recomputes every group. No partial merge.
func (r *RepositoryImpl) replaceAll(dtos []gateway.StoryDTO, viewed map[string]bool) []domain.StoryGroup {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = r.order[:0]
	r.byOwner = make(map[string][]*domain.Story, len(r.byOwner))
	r.byID = make(map[string]*domain.Story, len(dtos))

	for _, dto := range dtos {
		story := dto.ToDomain()
		if viewed[story.ID] {
			story.Viewed = true
		}
		if _, seen := r.byOwner[story.OwnerID]; !seen {
			r.order = append(r.order, story.OwnerID)
		}
		s := story
		r.byOwner[s.OwnerID] = append(r.byOwner[s.OwnerID], &s)
		r.byID[s.ID] = &s
	}

	groups := r.groupsLocked()
	r.publishLocked(groups)
	return groups
}

// groupsLocked derives one StoryGroup per owner, in server order. The last
// story of a sequence is the newest, so its thumb fronts the group.
func (r *RepositoryImpl) groupsLocked() []domain.StoryGroup {
	groups := make([]domain.StoryGroup, 0, len(r.order))
	for _, ownerID := range r.order {
		seq := r.byOwner[ownerID]
		if len(seq) == 0 {
			continue
		}
		latest := seq[len(seq)-1]
		group := domain.StoryGroup{
			UserID:         ownerID,
			UserName:       latest.OwnerName,
			AvatarURL:      latest.OwnerAvatarURL,
			LatestThumbURL: latest.ThumbURL,
		}
		for _, s := range seq {
			if !s.Viewed {
				group.HasUnseen = true
				break
			}
		}
		groups = append(groups, group)
	}
	return groups
}

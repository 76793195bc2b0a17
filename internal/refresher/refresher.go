package refresher

import "context"

type Client interface {
	// ScheduleFeedRefresh refetches the story feed periodically; stories
	// expire server-side, so a stale feed shows dead entries.
	ScheduleFeedRefresh(ctx context.Context) error
	// ScheduleViewLogCleanup prunes persisted view-log records nightly.
	ScheduleViewLogCleanup(ctx context.Context) error
}

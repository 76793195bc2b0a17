package refresherimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/refresher"
	"github.com/appservices/hush-stories/internal/repositories/viewlog"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/pkg/config"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Stories  stories.Repository
	ViewLog  viewlog.Repository
	AppState *appstate.State
	Logger   logger.Logger
	Config   *config.Config
}

type RefresherImpl struct {
	Stories  stories.Repository
	ViewLog  viewlog.Repository
	AppState *appstate.State
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *RefresherImpl {
	return &RefresherImpl{
		Stories:  opts.Stories,
		ViewLog:  opts.ViewLog,
		AppState: opts.AppState,
		Logger:   opts.Logger.WithComponent("Refresher"),
		Config:   opts.Config,
	}
}

var _ refresher.Client = (*RefresherImpl)(nil)

func (r *RefresherImpl) ScheduleFeedRefresh(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	interval := time.Duration(r.Config.Feed.RefreshMinutes) * time.Minute

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				r.Logger.Info("Context cancelled, stopping feed refresh job")
				return
			}

			if _, ok := r.AppState.CurrentUser(); !ok {
				r.Logger.Debug("No signed-in user, skipping feed refresh")
				return
			}

			taskCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			if _, err := r.Stories.FetchFeed(taskCtx); err != nil {
				r.Logger.Error("Scheduled feed refresh failed", "error", err)
				return
			}
			r.AppState.ConsumeFeedStale()
			r.Logger.Info("Feed refreshed")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		r.Logger.Info("Stopping feed refresh scheduler")
		if err := scheduler.Shutdown(); err != nil {
			r.Logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
	}()

	return nil
}

// ScheduleViewLogCleanup sets up a daily job to prune old view-log records.
func (r *RefresherImpl) ScheduleViewLogCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	ttl := time.Duration(r.Config.Feed.ViewLogTTLDays) * 24 * time.Hour

	// Run at 3:00 AM every day.
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				r.Logger.Info("Context cancelled, stopping view log cleanup job")
				return
			}

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			rowsDeleted, err := r.ViewLog.CleanupOldRecords(cleanupCtx, ttl)
			if err != nil {
				r.Logger.Error("Failed to clean up view log", "error", err)
				return
			}
			r.Logger.Info("View log cleanup completed", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule view log cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		r.Logger.Info("Stopping view log cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			r.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}

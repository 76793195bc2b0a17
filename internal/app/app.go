package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/appservices/hush-stories/internal/appstate"
	"github.com/appservices/hush-stories/internal/feed"
	"github.com/appservices/hush-stories/internal/gateway"
	"github.com/appservices/hush-stories/internal/gateway/gatewayimpl"
	_ "github.com/appservices/hush-stories/internal/migrations"
	"github.com/appservices/hush-stories/internal/pgx"
	"github.com/appservices/hush-stories/internal/refresher"
	"github.com/appservices/hush-stories/internal/refresher/refresherimpl"
	repositories "github.com/appservices/hush-stories/internal/repositories/fx"
	"github.com/appservices/hush-stories/internal/repositories/usersession"
	"github.com/appservices/hush-stories/internal/session"
	"github.com/appservices/hush-stories/internal/stories"
	"github.com/appservices/hush-stories/internal/stories/storiesimpl"
	"github.com/appservices/hush-stories/internal/upload"
	"github.com/appservices/hush-stories/internal/upload/uploadimpl"
	"github.com/appservices/hush-stories/pkg/config"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
	"github.com/appservices/hush-stories/pkg/logger"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		appstate.New,
	),
	fx.Provide(
		fx.Annotate(
			gatewayimpl.New,
			fx.As(new(gateway.Client)),
		),
		fx.Annotate(
			storiesimpl.New,
			fx.As(new(stories.Repository)),
		),
		fx.Annotate(
			uploadimpl.New,
			fx.As(new(upload.Workflow)),
		),
		fx.Annotate(
			refresherimpl.New,
			fx.As(new(refresher.Client)),
		),
		feed.New,
		session.NewFactory,
	),
	repositories.Module,
	fx.Invoke(
		func(c *config.Config) error {
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			db, err := sql.Open("postgres", c.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			// Migrations are registered as Go migrations via the blank
			// import above; no directory of SQL files exists.
			return goose.Up(db, ".")
		}),
	fx.Invoke(run),
)

type RunOpts struct {
	fx.In
	LC fx.Lifecycle

	Logger         logger.Logger
	Config         *config.Config
	AppState       *appstate.State
	UserSession    usersession.Repository
	Stories        stories.Repository
	Refresher      refresher.Client
	Feed           *feed.Model
	SessionFactory *session.Factory
	Upload         upload.Workflow
}

func run(opts RunOpts) {
	appCtx, cancel := context.WithCancel(context.Background())

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go startHttpServer(opts.Logger, opts.Config)

			record, err := opts.UserSession.Get(ctx)
			switch {
			case err == nil && record.LoggedIn:
				opts.AppState.SetCurrentUser(record.User)
				opts.Logger.Info("Restored signed-in user", "user_id", record.User.ID)
			case err == nil || apperrors.Is(err, usersession.ErrNotFound):
				opts.Logger.Info("No signed-in user, story feed idle until login")
			default:
				return fmt.Errorf("failed to read user session: %w", err)
			}

			if _, ok := opts.AppState.CurrentUser(); ok {
				if _, err := opts.Stories.FetchFeed(ctx); err != nil {
					// The refresh job retries; starting with an empty feed is
					// better than not starting.
					opts.Logger.Error("Initial feed fetch failed", "error", err)
				}
			}

			if err := opts.Refresher.ScheduleFeedRefresh(appCtx); err != nil {
				return err
			}
			if err := opts.Refresher.ScheduleViewLogCleanup(appCtx); err != nil {
				return err
			}

			go consumeFeedUpdates(appCtx, opts.Logger, opts.Feed)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			opts.Stories.Close()
			return nil
		},
	})
}

func consumeFeedUpdates(ctx context.Context, log logger.Logger, model *feed.Model) {
	for {
		select {
		case <-ctx.Done():
			return
		case groups := <-model.Updates():
			log.Debug("Feed updated", "groups", len(groups))
		}
	}
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package gatewayimpl

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/appservices/hush-stories/internal/gateway"
	apperrors "github.com/appservices/hush-stories/pkg/errors"
)

func (g *GatewayImpl) ViewStories(ctx context.Context, userID string) ([]gateway.StoryDTO, error) {
	env, err := g.call(ctx, "viewStory", actionParams("viewStory", "uid", userID))
	if err != nil {
		return nil, err
	}
	if env.Error != 0 {
		return nil, apperrors.NewServerRejected(env.Error, env.ErrorMessage)
	}
	return env.Stories, nil
}

func (g *GatewayImpl) UploadStory(ctx context.Context, userID, mediaPath, thumbPath string) ([]gateway.StoryDTO, error) {
	params := actionParams("uploadStory",
		"uid", userID,
		"media[0][status]", "ok",
		"media[0][video]", "0",
		"media[0][path]", mediaPath,
		"media[0][thumb]", thumbPath,
	)

	env, err := g.call(ctx, "uploadStory", params)
	if err != nil {
		return nil, err
	}
	// The uploadStory endpoint signals success with a positive created count
	// instead of error == 0.
	if env.Story <= 0 {
		return nil, apperrors.NewServerRejected(env.Error, env.ErrorMessage)
	}
	return env.Stories, nil
}

func (g *GatewayImpl) MarkStoryViewed(ctx context.Context, userID, storyID string) error {
	// View notifications are best-effort; when the per-user budget is spent
	// the notification is dropped rather than queued.
	if !g.viewRate.Allow(userID) {
		g.Logger.Debug("View notification dropped by rate limiter", "user_id", userID, "story_id", storyID)
		return nil
	}

	env, err := g.call(ctx, "viewedStory", actionParams("viewedStory", "uid", userID, "story_id", storyID))
	if err != nil {
		return err
	}
	if env.Error != 0 {
		return apperrors.NewServerRejected(env.Error, env.ErrorMessage)
	}
	return nil
}

func (g *GatewayImpl) UploadMedia(ctx context.Context, image []byte) (gateway.MediaUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", "story.jpg")
	if err != nil {
		return gateway.MediaUpload{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return gateway.MediaUpload{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return gateway.MediaUpload{}, fmt.Errorf("build upload form: %w", err)
	}

	env, err := g.post(ctx, "uploadImage", mw.FormDataContentType(), actionParams("uploadImage"), &buf)
	if err != nil {
		return gateway.MediaUpload{}, err
	}
	if env.Error != 0 {
		return gateway.MediaUpload{}, apperrors.NewServerRejected(env.Error, env.ErrorMessage)
	}
	if env.Path == "" {
		return gateway.MediaUpload{}, apperrors.New("upload response missing media path")
	}
	return gateway.MediaUpload{Path: env.Path, Thumb: env.Thumb}, nil
}

package viewlog

import (
	"context"
	"errors"
	"time"
)

// Entry records that the acting user viewed one story. Stories expire
// server-side, so entries only need to outlive the story.
type Entry struct {
	ID        int
	UserID    string
	StoryID   string
	CreatedAt time.Time
}

var ErrCannotCreate = errors.New("error create view log entry")

//go:generate go run go.uber.org/mock/mockgen -source=viewlog.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, entry Entry) error
	GetStoryIDs(ctx context.Context, userID string) ([]string, error)
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}

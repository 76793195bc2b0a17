package usersession

import (
	"context"
	"errors"

	"github.com/appservices/hush-stories/internal/domain"
)

// Record is the durable "current user" row read at process start.
type Record struct {
	User     domain.User
	LoggedIn bool
}

var ErrNotFound = errors.New("user session not found")

//go:generate go run go.uber.org/mock/mockgen -source=usersession.go -destination=mocks/mock.go
type Repository interface {
	Get(ctx context.Context) (*Record, error)
	Upsert(ctx context.Context, record Record) error
	Clear(ctx context.Context) error
}

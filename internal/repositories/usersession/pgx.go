package usersession

import (
	"context"
	"errors"

	"github.com/appservices/hush-stories/internal/repositories"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("UserSessionRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

// The table holds at most one row; id is fixed to 1.

func (r *PgxRepository) Get(ctx context.Context) (*Record, error) {
	query, args, err := repositories.SqBuilder.
		Select("user_id", "user_name", "avatar_url", "logged_in").
		From("user_session").
		Where("id = 1").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var record Record
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&record.User.ID,
		&record.User.Name,
		&record.User.AvatarURL,
		&record.LoggedIn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}

func (r *PgxRepository) Upsert(ctx context.Context, record Record) error {
	query, args, err := repositories.SqBuilder.
		Insert("user_session").
		Columns("id", "user_id", "user_name", "avatar_url", "logged_in").
		Values(1, record.User.ID, record.User.Name, record.User.AvatarURL, record.LoggedIn).
		Suffix("ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, user_name = EXCLUDED.user_name, avatar_url = EXCLUDED.avatar_url, logged_in = EXCLUDED.logged_in").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PgxRepository) Clear(ctx context.Context) error {
	query, args, err := repositories.SqBuilder.
		Delete("user_session").
		Where("id = 1").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

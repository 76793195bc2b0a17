package viewlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appservices/hush-stories/internal/repositories"
	"github.com/appservices/hush-stories/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	sq "github.com/Masterminds/squirrel"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("ViewLogRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, entry Entry) error {
	query, args, err := repositories.SqBuilder.
		Insert("story_views").
		Columns("user_id", "story_id", "created_at").
		Values(entry.UserID, entry.StoryID, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Same story viewed twice across restarts, nothing to record.
			return nil
		}
		return fmt.Errorf("%w: %v", ErrCannotCreate, err)
	}
	return nil
}

func (r *PgxRepository) GetStoryIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := repositories.SqBuilder.
		Select("story_id").
		From("story_views").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query view log: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan view log row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating view log rows: %w", err)
	}

	return ids, nil
}

func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("story_views").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up view log: %w", err)
	}
	return result.RowsAffected(), nil
}

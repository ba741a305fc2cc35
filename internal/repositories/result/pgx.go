package result

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/repositories"
	"github.com/orgball2608/social-scheduler/pkg/logger"
)

const table = "post_results"

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("ResultRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) CreateBatch(ctx context.Context, results []domain.PublishResult) error {
	if len(results) == 0 {
		return nil
	}

	builder := repositories.SqBuilder.
		Insert(table).
		Columns("post_id", "platform", "platform_post_id", "success", "error_message", "posted_at")
	for _, res := range results {
		builder = builder.Values(
			res.PostID,
			res.Platform,
			repositories.NullString(res.RemoteID),
			res.Success,
			repositories.NullString(res.ErrorMessage),
			res.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert publish results: %w", err)
	}
	return nil
}

func (r *PgxRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.PublishResult, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "platform", "platform_post_id", "success", "error_message", "posted_at").
		From(table).
		Where(sq.Eq{"post_id": postID}).
		OrderBy("posted_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query publish results: %w", err)
	}
	defer rows.Close()

	var results []*domain.PublishResult
	for rows.Next() {
		var (
			res      domain.PublishResult
			platform string
			remoteID *string
			errMsg   *string
		)
		if err := rows.Scan(&res.ID, &res.PostID, &platform, &remoteID, &res.Success, &errMsg, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan publish result row: %w", err)
		}
		res.Platform = domain.Platform(platform)
		res.RemoteID = repositories.StringValue(remoteID)
		res.ErrorMessage = repositories.StringValue(errMsg)
		results = append(results, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publish result rows: %w", err)
	}

	return results, nil
}

package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/repositories"
	"github.com/orgball2608/social-scheduler/pkg/logger"
)

const table = "posts"

var columns = []string{
	"id", "user_id", "content", "title", "hashtags", "platforms",
	"scheduled_date", "status", "posted_at", "created_at", "updated_at",
}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Create(ctx context.Context, post domain.Post) (*domain.Post, error) {
	now := time.Now()
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("user_id", "content", "title", "hashtags", "platforms", "scheduled_date", "status", "created_at", "updated_at").
		Values(
			post.UserID,
			post.Content,
			repositories.NullString(post.Title),
			repositories.NullString(post.Hashtags),
			platformNames(post.Platforms),
			post.ScheduledAt,
			post.Status,
			now,
			now,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	created, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

func (p *Pgx) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return p.getOne(ctx, sq.Eq{"id": id})
}

func (p *Pgx) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Post, error) {
	return p.getOne(ctx, sq.Eq{"id": id, "user_id": userID})
}

func (p *Pgx) getOne(ctx context.Context, where sq.Eq) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	post, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (p *Pgx) ListByUser(ctx context.Context, userID int64) ([]*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return p.queryPosts(ctx, query, args...)
}

func (p *Pgx) Update(ctx context.Context, post domain.Post) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("content", post.Content).
		Set("title", repositories.NullString(post.Title)).
		Set("hashtags", repositories.NullString(post.Hashtags)).
		Set("platforms", platformNames(post.Platforms)).
		Set("scheduled_date", post.ScheduledAt).
		Set("status", post.Status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{
			"id":      post.ID,
			"user_id": post.UserID,
			"status":  []string{string(domain.StatusDraft), string(domain.StatusScheduled)},
		}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	updated, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if _, getErr := p.GetByIDForUser(ctx, post.ID, post.UserID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrNotEditable
}

func (p *Pgx) Delete(ctx context.Context, id, userID int64) error {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// claimDueQuery locks due rows with SKIP LOCKED so overlapping claimers never
// receive the same post.
var claimDueQuery = `
	UPDATE posts p
	SET status = 'publishing', claimed_from = p.status, claimed_at = $1, updated_at = $1
	FROM users u
	WHERE p.user_id = u.id
	  AND p.status = 'scheduled'
	  AND p.id IN (
		SELECT id FROM posts
		WHERE status = 'scheduled' AND scheduled_date <= $1
		ORDER BY scheduled_date
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	  )
	RETURNING ` + prefixed("p.", columns)

func (p *Pgx) ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.Post, error) {
	return p.queryPosts(ctx, claimDueQuery, now, limit)
}

func (p *Pgx) ClaimForPublish(ctx context.Context, id, userID int64, now time.Time) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("claimed_from", sq.Expr("status")).
		Set("status", domain.StatusPublishing).
		Set("claimed_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Where(sq.NotEq{"status": domain.StatusPublishing}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	claimed, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err == nil {
		return claimed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to claim post: %w", err)
	}

	if _, getErr := p.GetByIDForUser(ctx, id, userID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrPublishInProgress
}

func (p *Pgx) ReleaseClaim(ctx context.Context, id int64) error {
	_, err := p.release(ctx, sq.Eq{"id": id})
	return err
}

func (p *Pgx) ReleaseStaleClaims(ctx context.Context, olderThan time.Time) (int64, error) {
	return p.release(ctx, sq.Lt{"claimed_at": olderThan})
}

func (p *Pgx) release(ctx context.Context, where sq.Sqlizer) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("status", sq.Expr("COALESCE(claimed_from, ?)", domain.StatusScheduled)).
		Set("claimed_at", nil).
		Set("claimed_from", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"status": domain.StatusPublishing}).
		Where(where).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to release post claim: %w", err)
	}
	return result.RowsAffected(), nil
}

func (p *Pgx) Finalize(ctx context.Context, id int64, status domain.PostStatus, postedAt time.Time) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("status", status).
		Set("posted_at", postedAt).
		Set("updated_at", postedAt).
		Set("claimed_at", nil).
		Set("claimed_from", nil).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	post, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to finalize post: %w", err)
	}
	return post, nil
}

func (p *Pgx) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func scanPost(row repositories.Scanner) (*domain.Post, error) {
	var (
		post      domain.Post
		title     *string
		hashtags  *string
		platforms []string
		status    string
	)
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&title,
		&hashtags,
		&platforms,
		&post.ScheduledAt,
		&status,
		&post.PostedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Title = repositories.StringValue(title)
	post.Hashtags = repositories.StringValue(hashtags)
	post.Platforms = domain.NormalizePlatforms(platforms)
	post.Status = domain.PostStatus(status)
	return &post, nil
}

func platformNames(platforms []domain.Platform) []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return names
}

func prefixed(prefix string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return strings.Join(out, ", ")
}

package credential

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

const table = "social_accounts"

var columns = []string{
	"id", "user_id", "platform", "platform_user_id", "access_token", "refresh_token",
	"token_expires_at", "is_active", "created_at", "updated_at",
}

const upsertSuffix = `ON CONFLICT (user_id, platform) DO UPDATE SET
	access_token = EXCLUDED.access_token,
	refresh_token = EXCLUDED.refresh_token,
	token_expires_at = EXCLUDED.token_expires_at,
	platform_user_id = COALESCE(EXCLUDED.platform_user_id, social_accounts.platform_user_id),
	is_active = true,
	updated_at = EXCLUDED.updated_at
RETURNING `

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("CredentialRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Upsert(ctx context.Context, cred domain.Credential) (*domain.Credential, error) {
	now := time.Now()
	query, args, err := repositories.SqBuilder.
		Insert(table).
		Columns("user_id", "platform", "platform_user_id", "access_token", "refresh_token", "token_expires_at", "is_active", "created_at", "updated_at").
		Values(
			cred.UserID,
			cred.Platform,
			repositories.NullString(cred.AccountID),
			cred.AccessToken,
			repositories.NullString(cred.RefreshToken),
			cred.ExpiresAt,
			true,
			now,
			now,
		).
		Suffix(upsertSuffix + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	stored, err := scanCredential(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert credential: %w", err)
	}
	return stored, nil
}

func (r *PgxRepository) GetActive(ctx context.Context, userID int64, platforms []domain.Platform) (map[domain.Platform]*domain.Credential, error) {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID, "platform": names, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	creds, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	active := make(map[domain.Platform]*domain.Credential, len(creds))
	for _, c := range creds {
		active[c.Platform] = c
	}
	return active, nil
}

func (r *PgxRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Credential, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("platform ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	return r.query(ctx, query, args...)
}

func (r *PgxRepository) Deactivate(ctx context.Context, userID int64, platform domain.Platform) error {
	query, args, err := repositories.SqBuilder.
		Update(table).
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"user_id": userID, "platform": platform}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to deactivate credential: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgxRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Credential, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var creds []*domain.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credential rows: %w", err)
	}

	return creds, nil
}

func scanCredential(row repositories.Scanner) (*domain.Credential, error) {
	var (
		c         domain.Credential
		platform  string
		accountID *string
		refresh   *string
	)
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&platform,
		&accountID,
		&c.AccessToken,
		&refresh,
		&c.ExpiresAt,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Platform = domain.Platform(platform)
	c.AccountID = repositories.StringValue(accountID)
	c.RefreshToken = repositories.StringValue(refresh)
	return &c, nil
}

package post

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/migrations"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the claim queries against a real database. They need
// POSTGRES_TEST_URL pointing at a disposable database; every table is truncated.
func newTestRepo(t *testing.T) (*Pgx, int64) {
	t.Helper()

	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL is not set")
	}

	db, err := sql.Open("postgres", url)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migrations.Up(db))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	var userID int64
	require.NoError(t, pool.QueryRow(ctx, "INSERT INTO users (email) VALUES ('owner@example.com') RETURNING id").Scan(&userID))

	return NewPgx(pool, logger.NewNop()), userID
}

func createPost(t *testing.T, repo *Pgx, userID int64, status domain.PostStatus, at *time.Time) *domain.Post {
	t.Helper()

	p, err := repo.Create(context.Background(), domain.Post{
		UserID:      userID,
		Content:     "hello",
		Platforms:   []domain.Platform{domain.PlatformTwitter},
		ScheduledAt: at,
		Status:      status,
	})
	require.NoError(t, err)
	return p
}

func ago(now time.Time, d time.Duration) *time.Time {
	at := now.Add(-d)
	return &at
}

func ids(posts []*domain.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestPgx_ClaimDue_OnlyScheduledAndDue(t *testing.T) {
	repo, userID := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	future := now.Add(time.Hour)

	due := createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Minute))
	exact := createPost(t, repo, userID, domain.StatusScheduled, &now)
	createPost(t, repo, userID, domain.StatusScheduled, &future)
	createPost(t, repo, userID, domain.StatusDraft, ago(now, time.Minute))
	createPost(t, repo, userID, domain.StatusFailed, ago(now, time.Minute))
	createPost(t, repo, userID, domain.StatusPublished, ago(now, time.Minute))

	claimed, err := repo.ClaimDue(ctx, now, 10)

	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{due.ID, exact.ID}, ids(claimed))
	for _, p := range claimed {
		assert.Equal(t, domain.StatusPublishing, p.Status)
	}

	again, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestPgx_ClaimDue_OldestFirstUpToLimit(t *testing.T) {
	repo, userID := newTestRepo(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	oldest := createPost(t, repo, userID, domain.StatusScheduled, ago(now, 3*time.Minute))
	older := createPost(t, repo, userID, domain.StatusScheduled, ago(now, 2*time.Minute))
	createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Minute))

	claimed, err := repo.ClaimDue(context.Background(), now, 2)

	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{oldest.ID, older.ID}, ids(claimed))
}

func TestPgx_FailedPostIsNotRequeued(t *testing.T) {
	repo, userID := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Minute))
	_, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)

	final, err := repo.Finalize(ctx, p.ID, domain.StatusFailed, now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, final.Status)

	claimed, err := repo.ClaimDue(ctx, now.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestPgx_ReleaseClaim_RestoresStatus(t *testing.T) {
	repo, userID := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Minute))
	_, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)

	require.NoError(t, repo.ReleaseClaim(ctx, p.ID))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, got.Status)

	claimed, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, ids(claimed))
}

func TestPgx_ReleaseStaleClaims(t *testing.T) {
	repo, userID := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	stale := createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Hour))
	_, err := repo.ClaimDue(ctx, now.Add(-30*time.Minute), 10)
	require.NoError(t, err)

	fresh := createPost(t, repo, userID, domain.StatusScheduled, ago(now, time.Minute))
	_, err = repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)

	released, err := repo.ReleaseStaleClaims(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublishing, got.Status)
}

func TestPgx_ClaimForPublish(t *testing.T) {
	repo, userID := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	draft := createPost(t, repo, userID, domain.StatusDraft, nil)

	claimed, err := repo.ClaimForPublish(ctx, draft.ID, userID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublishing, claimed.Status)

	_, err = repo.ClaimForPublish(ctx, draft.ID, userID, now)
	assert.ErrorIs(t, err, ErrPublishInProgress)

	_, err = repo.ClaimForPublish(ctx, draft.ID, userID+1, now)
	assert.ErrorIs(t, err, ErrNotFound)

	// a draft claimed on demand goes back to draft, never into the due queue
	require.NoError(t, repo.ReleaseClaim(ctx, draft.ID))
	got, err := repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)
}

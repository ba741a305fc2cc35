package post

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

var (
	ErrNotFound          = errors.New("post not found")
	ErrNotEditable       = errors.New("post can only be changed while draft or scheduled")
	ErrPublishInProgress = errors.New("post is already being published")
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	Create(ctx context.Context, post domain.Post) (*domain.Post, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Post, error)

	// Update overwrites the editable fields of a draft or scheduled post.
	Update(ctx context.Context, post domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id, userID int64) error

	// ClaimDue moves up to limit due scheduled posts with an existing owner into
	// publishing and returns them. Rows locked by a concurrent claim are skipped.
	ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.Post, error)

	// ClaimForPublish moves one owned post into publishing unless it already is.
	ClaimForPublish(ctx context.Context, id, userID int64, now time.Time) (*domain.Post, error)

	// ReleaseClaim puts a publishing post back to the status it was claimed from.
	ReleaseClaim(ctx context.Context, id int64) error

	// ReleaseStaleClaims releases claims taken before olderThan.
	ReleaseStaleClaims(ctx context.Context, olderThan time.Time) (int64, error)

	// Finalize writes the terminal status and posted_at and clears the claim.
	Finalize(ctx context.Context, id int64, status domain.PostStatus, postedAt time.Time) (*domain.Post, error)
}

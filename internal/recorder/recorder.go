package recorder

import (
	"context"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=recorder.go -destination=mocks/mock.go
type Client interface {
	// Record appends one result row per outcome. Earlier rows are never touched.
	Record(ctx context.Context, postID int64, outcomes []domain.PlatformOutcome) error

	// Finalize sets the aggregate status and posted_at of the post and clears its claim.
	Finalize(ctx context.Context, postID int64, outcomes []domain.PlatformOutcome) (*domain.Post, error)

	// ListResults returns the result history of a post, newest first.
	ListResults(ctx context.Context, postID int64) ([]*domain.PublishResult, error)
}

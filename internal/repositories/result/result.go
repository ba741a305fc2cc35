package result

import (
	"context"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=result.go -destination=mocks/mock.go
type Repository interface {
	// CreateBatch appends results. Rows are never updated or deduplicated.
	CreateBatch(ctx context.Context, results []domain.PublishResult) error

	// ListByPost returns a post's results, newest first.
	ListByPost(ctx context.Context, postID int64) ([]*domain.PublishResult, error)
}

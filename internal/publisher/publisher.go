package publisher

import (
	"context"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock.go
type Client interface {
	// Publish attempts every target platform of post and returns one outcome per
	// platform, in the post's platform order. It neither persists nor sets status.
	Publish(ctx context.Context, post *domain.Post) []domain.PlatformOutcome
}

package posting

import (
	"context"
	"time"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

// Error codes attached to the errors the Client returns; read them with
// pkg/errors.GetCode.
const (
	CodePostNotFound        = "post_not_found"
	CodeAccountNotFound     = "account_not_found"
	CodePostNotEditable     = "post_not_editable"
	CodePublishInProgress   = "publish_in_progress"
	CodeInvalidPost         = "invalid_post"
	CodeMissingPlatform     = "missing_platform"
	CodeUnsupportedPlatform = "unsupported_platform"
	CodeMissingAccessToken  = "missing_access_token"
)

// TokenGrant is what an OAuth exchange hands over for one platform account.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

type CreatePostInput struct {
	Content     string
	Title       string
	Hashtags    string
	Platforms   []string
	ScheduledAt *time.Time

	// Draft keeps a dated post away from the scheduler.
	Draft bool
}

// UpdatePostInput replaces the non-nil fields of a post.
type UpdatePostInput struct {
	Content     *string
	Title       *string
	Hashtags    *string
	Platforms   []string
	ScheduledAt *time.Time

	// Unschedule moves the post back to draft and clears its date.
	Unschedule bool
}

type Client interface {
	// PublishNow publishes one post of userID synchronously, whatever its status,
	// unless a publish of it is already running.
	PublishNow(ctx context.Context, postID, userID int64) (*domain.PublishReport, error)

	CreatePost(ctx context.Context, userID int64, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, postID, userID int64) (*domain.Post, error)
	ListPosts(ctx context.Context, userID int64) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, postID, userID int64, in UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, postID, userID int64) error
	ListResults(ctx context.Context, postID, userID int64) ([]*domain.PublishResult, error)

	// ConnectAccount stores grant as the active credential of userID on platform.
	// Connecting again replaces and reactivates the previous grant.
	ConnectAccount(ctx context.Context, userID int64, platform string, grant TokenGrant, accountID string) (*domain.Credential, error)
	ListAccounts(ctx context.Context, userID int64) ([]*domain.Credential, error)
	DisconnectAccount(ctx context.Context, userID int64, platform string) error
}

package domain

import (
	"errors"
	"time"
)

// ErrTokenExpired means the stored access token is past its known expiry.
var ErrTokenExpired = errors.New("access token expired")

// Credential is a stored OAuth grant for one user on one platform.
type Credential struct {
	ID           int64
	UserID       int64
	Platform     Platform
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	// AccountID is the platform scoped target, e.g. a Facebook page id or a Telegram chat.
	AccountID string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the token has a known expiry that is not after now.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

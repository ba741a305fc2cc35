package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrNotConnected means the owner has no active credential for a target platform.
var ErrNotConnected = errors.New("account not connected")

// PlatformOutcome is the result of one publish attempt on one platform.
type PlatformOutcome struct {
	Platform  Platform
	Success   bool
	RemoteID  string
	Error     string
	Timestamp time.Time
}

func Succeeded(platform Platform, remoteID string, at time.Time) PlatformOutcome {
	return PlatformOutcome{Platform: platform, Success: true, RemoteID: remoteID, Timestamp: at}
}

// Failed records err as text. Invalid UTF-8 is replaced so the row stays storable.
func Failed(platform Platform, err error, at time.Time) PlatformOutcome {
	msg := strings.ToValidUTF8(err.Error(), "\uFFFD")
	return PlatformOutcome{Platform: platform, Success: false, Error: msg, Timestamp: at}
}

// AggregateStatus is published only when every outcome succeeded. An empty list
// never counts as success.
func AggregateStatus(outcomes []PlatformOutcome) PostStatus {
	if len(outcomes) == 0 {
		return StatusFailed
	}
	for _, o := range outcomes {
		if !o.Success {
			return StatusFailed
		}
	}
	return StatusPublished
}

// PublishResult is a persisted PlatformOutcome.
type PublishResult struct {
	ID           int64
	PostID       int64
	Platform     Platform
	Success      bool
	RemoteID     string
	ErrorMessage string
	CreatedAt    time.Time
}

// PublishReport is what an on-demand publish hands back to its caller.
type PublishReport struct {
	Post     *Post
	Outcomes []PlatformOutcome
}

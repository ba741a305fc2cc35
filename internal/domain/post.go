package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/orgball2608/social-scheduler/pkg/formatter"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	// StatusPublishing marks a post claimed by a publish attempt that has not finished.
	StatusPublishing PostStatus = "publishing"
	StatusPublished  PostStatus = "published"
	StatusFailed     PostStatus = "failed"
)

var (
	ErrEmptyContent   = errors.New("post content is required")
	ErrNoPlatforms    = errors.New("post needs at least one target platform")
	ErrMissingOwner   = errors.New("post owner is required")
	ErrScheduleNeeded = errors.New("scheduled post needs a scheduled date")
)

// Post is a unit of content published to one or more platforms.
type Post struct {
	ID          int64
	UserID      int64
	Content     string
	Title       string // optional
	Hashtags    string // optional
	Platforms   []Platform
	ScheduledAt *time.Time
	Status      PostStatus
	PostedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullContent is the text every platform receives before per-platform truncation.
func (p *Post) FullContent() string {
	return formatter.ComposePost(p.Title, p.Content, p.Hashtags)
}

// Editable reports whether the post may still be changed by its owner.
func (p *Post) Editable() bool {
	return p.Status == StatusDraft || p.Status == StatusScheduled
}

func (p *Post) Validate() error {
	if p.UserID == 0 {
		return ErrMissingOwner
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if len(p.Platforms) == 0 {
		return ErrNoPlatforms
	}
	if p.Status == StatusScheduled && p.ScheduledAt == nil {
		return ErrScheduleNeeded
	}
	return nil
}

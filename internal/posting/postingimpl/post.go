package postingimpl

import (
	"context"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/posting"
	"github.com/orgball2608/social-scheduler/internal/repositories/post"
)

func (s *PostingImpl) CreatePost(ctx context.Context, userID int64, in posting.CreatePostInput) (*domain.Post, error) {
	p := domain.Post{
		UserID:      userID,
		Content:     in.Content,
		Title:       in.Title,
		Hashtags:    in.Hashtags,
		Platforms:   domain.NormalizePlatforms(in.Platforms),
		ScheduledAt: in.ScheduledAt,
		Status:      domain.StatusDraft,
	}
	if in.ScheduledAt != nil && !in.Draft {
		p.Status = domain.StatusScheduled
	}

	if err := p.Validate(); err != nil {
		return nil, invalid(posting.CodeInvalidPost, err)
	}

	created, err := s.PostRepo.Create(ctx, p)
	if err != nil {
		s.Logger.Error("Failed to create post", "user_id", userID, "error", err)
		return nil, err
	}

	s.Logger.Info("Post created", "post_id", created.ID, "user_id", userID, "status", created.Status)
	return created, nil
}

func (s *PostingImpl) GetPost(ctx context.Context, postID, userID int64) (*domain.Post, error) {
	p, err := s.PostRepo.GetByIDForUser(ctx, postID, userID)
	return p, classify(err)
}

func (s *PostingImpl) ListPosts(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return s.PostRepo.ListByUser(ctx, userID)
}

func (s *PostingImpl) UpdatePost(ctx context.Context, postID, userID int64, in posting.UpdatePostInput) (*domain.Post, error) {
	current, err := s.PostRepo.GetByIDForUser(ctx, postID, userID)
	if err != nil {
		return nil, classify(err)
	}
	if !current.Editable() {
		return nil, classify(post.ErrNotEditable)
	}

	next := *current
	if in.Content != nil {
		next.Content = *in.Content
	}
	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Hashtags != nil {
		next.Hashtags = *in.Hashtags
	}
	if in.Platforms != nil {
		next.Platforms = domain.NormalizePlatforms(in.Platforms)
	}
	switch {
	case in.Unschedule:
		next.ScheduledAt = nil
		next.Status = domain.StatusDraft
	case in.ScheduledAt != nil:
		next.ScheduledAt = in.ScheduledAt
		next.Status = domain.StatusScheduled
	}

	if err := next.Validate(); err != nil {
		return nil, invalid(posting.CodeInvalidPost, err)
	}

	updated, err := s.PostRepo.Update(ctx, next)
	if err != nil {
		return nil, classify(err)
	}
	return updated, nil
}

func (s *PostingImpl) DeletePost(ctx context.Context, postID, userID int64) error {
	return classify(s.PostRepo.Delete(ctx, postID, userID))
}

func (s *PostingImpl) ListResults(ctx context.Context, postID, userID int64) ([]*domain.PublishResult, error) {
	if _, err := s.PostRepo.GetByIDForUser(ctx, postID, userID); err != nil {
		return nil, classify(err)
	}
	return s.Recorder.ListResults(ctx, postID)
}

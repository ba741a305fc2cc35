package postingimpl

import (
	"context"
	"time"

	"github.com/orgball2608/social-scheduler/internal/domain"
	apperrors "github.com/orgball2608/social-scheduler/pkg/errors"
)

const (
	releaseTimeout = 10 * time.Second
	persistTimeout = 30 * time.Second
)

// PublishNow claims the post, fans it out and records the outcome. When recording
// fails the claim is released and the report is still returned next to the error.
func (s *PostingImpl) PublishNow(ctx context.Context, postID, userID int64) (*domain.PublishReport, error) {
	claimed, err := s.PostRepo.ClaimForPublish(ctx, postID, userID, s.now())
	if err != nil {
		err = classify(err)
		s.Logger.Warn("Publish rejected", "post_id", postID, "user_id", userID, "code", apperrors.GetCode(err), "error", err)
		return nil, err
	}

	s.Logger.Info("Publishing post on demand", "post_id", postID, "user_id", userID, "platforms", len(claimed.Platforms))

	outcomes := s.Publisher.Publish(ctx, claimed)
	report := &domain.PublishReport{Post: claimed, Outcomes: outcomes}

	// the platforms already saw the post, so a caller going away must not drop the results
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.Recorder.Record(persistCtx, postID, outcomes); err != nil {
		s.release(ctx, postID)
		return report, err
	}

	finalized, err := s.Recorder.Finalize(persistCtx, postID, outcomes)
	if err != nil {
		s.release(ctx, postID)
		return report, err
	}

	report.Post = finalized
	return report, nil
}

func (s *PostingImpl) release(ctx context.Context, postID int64) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.PostRepo.ReleaseClaim(releaseCtx, postID); err != nil {
		s.Logger.Error("Failed to release publish claim", "post_id", postID, "error", err)
	}
}

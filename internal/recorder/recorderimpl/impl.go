package recorderimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/recorder"
	"github.com/orgball2608/social-scheduler/internal/repositories/post"
	"github.com/orgball2608/social-scheduler/internal/repositories/result"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	PostRepo   post.Repository
	ResultRepo result.Repository
	Logger     logger.Logger
}

type RecorderImpl struct {
	PostRepo   post.Repository
	ResultRepo result.Repository
	Logger     logger.Logger

	now func() time.Time
}

func New(opts Opts) *RecorderImpl {
	return &RecorderImpl{
		PostRepo:   opts.PostRepo,
		ResultRepo: opts.ResultRepo,
		Logger:     opts.Logger.WithComponent("recorder"),
		now:        time.Now,
	}
}

var _ recorder.Client = (*RecorderImpl)(nil)

func (r *RecorderImpl) Record(ctx context.Context, postID int64, outcomes []domain.PlatformOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	results := make([]domain.PublishResult, 0, len(outcomes))
	for _, o := range outcomes {
		at := o.Timestamp
		if at.IsZero() {
			at = r.now()
		}
		results = append(results, domain.PublishResult{
			PostID:       postID,
			Platform:     o.Platform,
			Success:      o.Success,
			RemoteID:     o.RemoteID,
			ErrorMessage: o.Error,
			CreatedAt:    at,
		})
	}

	if err := r.ResultRepo.CreateBatch(ctx, results); err != nil {
		r.Logger.Error("Failed to record publish results", "post_id", postID, "error", err)
		return fmt.Errorf("record results for post %d: %w", postID, err)
	}
	return nil
}

func (r *RecorderImpl) Finalize(ctx context.Context, postID int64, outcomes []domain.PlatformOutcome) (*domain.Post, error) {
	status := domain.AggregateStatus(outcomes)

	p, err := r.PostRepo.Finalize(ctx, postID, status, r.now())
	if err != nil {
		r.Logger.Error("Failed to finalize post", "post_id", postID, "status", status, "error", err)
		return nil, fmt.Errorf("finalize post %d: %w", postID, err)
	}

	r.Logger.Info("Post finalized", "post_id", postID, "status", status)
	return p, nil
}

func (r *RecorderImpl) ListResults(ctx context.Context, postID int64) ([]*domain.PublishResult, error) {
	return r.ResultRepo.ListByPost(ctx, postID)
}

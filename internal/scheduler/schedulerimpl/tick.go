package schedulerimpl

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/panjf2000/ants/v2"
)

const (
	releaseTimeout = 10 * time.Second
	persistTimeout = 30 * time.Second
)

func (s *SchedulerImpl) RunOnce(ctx context.Context) (int, error) {
	if timeout := s.Config.Scheduler.TickTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tickID := uuid.NewString()
	now := s.now()

	if age := s.Config.Scheduler.StaleClaimAfter; age > 0 {
		released, err := s.PostRepo.ReleaseStaleClaims(ctx, now.Add(-age))
		if err != nil {
			s.Logger.Warn("Failed to release stale claims", "tick_id", tickID, "error", err)
		} else if released > 0 {
			s.Logger.Warn("Released stale publish claims", "tick_id", tickID, "count", released)
		}
	}

	posts, err := s.PostRepo.ClaimDue(ctx, now, s.Config.Scheduler.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim due posts: %w", err)
	}

	if len(posts) == 0 {
		s.Logger.Debug("No due posts", "tick_id", tickID)
		return 0, nil
	}

	s.Logger.Info("Publishing due posts", "tick_id", tickID, "count", len(posts))

	processed := s.runWithAnts(ctx, tickID, posts)

	s.Logger.Info("Scheduler tick finished", "tick_id", tickID, "claimed", len(posts), "finalized", processed)
	return processed, nil
}

func (s *SchedulerImpl) runWithAnts(ctx context.Context, tickID string, posts []*domain.Post) int {
	workers := s.Config.Scheduler.Workers
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		s.Logger.Error("Failed to create worker pool", "tick_id", tickID, "error", err)
		for _, p := range posts {
			s.releaseClaim(ctx, tickID, p.ID)
		}
		return 0
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		processed int64
	)
	for _, p := range posts {
		wg.Add(1)
		postToProcess := p

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				s.Logger.Info("Skipping post due to context cancellation", "tick_id", tickID, "post_id", postToProcess.ID)
				s.releaseClaim(ctx, tickID, postToProcess.ID)
			default:
				if err := s.processPost(ctx, tickID, postToProcess); err != nil {
					s.Logger.Error("Failed to process post", "tick_id", tickID, "post_id", postToProcess.ID, "error", err)
					return
				}
				atomic.AddInt64(&processed, 1)
			}
		})
		if err != nil {
			wg.Done()
			s.Logger.Error("Failed to submit post to worker pool", "tick_id", tickID, "post_id", postToProcess.ID, "error", err)
			s.releaseClaim(ctx, tickID, postToProcess.ID)
		}
	}

	wg.Wait()
	return int(atomic.LoadInt64(&processed))
}

// processPost runs one claimed post through publish, record and finalize. Only
// publish is bound by the tick deadline; results of calls that already reached
// the platforms are always written. On a persistence failure the claim is
// released so the next tick retries the post.
func (s *SchedulerImpl) processPost(ctx context.Context, tickID string, p *domain.Post) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing post: %v", r)
			s.releaseClaim(ctx, tickID, p.ID)
		}
	}()

	outcomes := s.Publisher.Publish(ctx, p)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.Recorder.Record(persistCtx, p.ID, outcomes); err != nil {
		s.releaseClaim(ctx, tickID, p.ID)
		return err
	}

	if _, err := s.Recorder.Finalize(persistCtx, p.ID, outcomes); err != nil {
		s.releaseClaim(ctx, tickID, p.ID)
		return err
	}

	s.Logger.Info("Post processed", "tick_id", tickID, "post_id", p.ID, "status", domain.AggregateStatus(outcomes))
	return nil
}

func (s *SchedulerImpl) releaseClaim(ctx context.Context, tickID string, postID int64) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.PostRepo.ReleaseClaim(releaseCtx, postID); err != nil {
		s.Logger.Error("Failed to release publish claim", "tick_id", tickID, "post_id", postID, "error", err)
	}
}

package publisherimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/pkg/formatter"
)

func (p *PublisherImpl) Publish(ctx context.Context, post *domain.Post) []domain.PlatformOutcome {
	outcomes := make([]domain.PlatformOutcome, len(post.Platforms))
	if len(post.Platforms) == 0 {
		return outcomes
	}

	creds, err := p.CredentialRepo.GetActive(ctx, post.UserID, post.Platforms)
	if err != nil {
		p.Logger.Error("Failed to load credentials", "post_id", post.ID, "user_id", post.UserID, "error", err)
		lookupErr := fmt.Errorf("credential lookup failed: %w", err)
		for i, pl := range post.Platforms {
			outcomes[i] = domain.Failed(pl, lookupErr, p.now())
		}
		return outcomes
	}

	content := post.FullContent()

	var wg sync.WaitGroup
	for i, pl := range post.Platforms {
		cred, ok := creds[pl]
		if !ok || cred == nil {
			outcomes[i] = domain.Failed(pl, domain.ErrNotConnected, p.now())
			continue
		}
		if cred.Expired(p.now()) {
			p.Logger.Warn("Skipping platform with expired token", "post_id", post.ID, "platform", pl)
			outcomes[i] = domain.Failed(pl, domain.ErrTokenExpired, p.now())
			continue
		}

		wg.Add(1)
		go func(i int, pl domain.Platform, cred domain.Credential) {
			defer wg.Done()
			outcomes[i] = p.publishOne(ctx, post.ID, pl, cred, content)
		}(i, pl, *cred)
	}
	wg.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
	}
	p.Logger.Info("Post fan-out finished",
		"post_id", post.ID,
		"platforms", len(outcomes),
		"succeeded", succeeded)

	return outcomes
}

func (p *PublisherImpl) publishOne(ctx context.Context, postID int64, pl domain.Platform, cred domain.Credential, content string) (outcome domain.PlatformOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error("Platform adapter panicked", "post_id", postID, "platform", pl, "panic", r)
			outcome = domain.Failed(pl, fmt.Errorf("adapter panic: %v", r), p.now())
		}
	}()

	adapter, err := p.Registry.Get(pl)
	if err != nil {
		p.Logger.Warn("No adapter for platform", "post_id", postID, "platform", pl)
		return domain.Failed(pl, err, p.now())
	}

	if err := p.Limiter.Wait(ctx, pl.String()); err != nil {
		return domain.Failed(pl, fmt.Errorf("rate limit wait: %w", err), p.now())
	}

	text := formatter.Truncate(content, adapter.MaxContentLength())
	remoteID, err := adapter.Publish(ctx, cred, text)
	if err != nil {
		p.Logger.Warn("Platform publish failed", "post_id", postID, "platform", pl, "error", err)
		return domain.Failed(pl, err, p.now())
	}

	p.Logger.Debug("Platform publish succeeded", "post_id", postID, "platform", pl, "remote_id", remoteID)
	return domain.Succeeded(pl, remoteID, p.now())
}

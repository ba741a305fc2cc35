package publisherimpl

import (
	"time"

	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/internal/publisher"
	"github.com/orgball2608/social-scheduler/internal/ratelimit"
	"github.com/orgball2608/social-scheduler/internal/repositories/credential"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Registry       *platform.Registry
	CredentialRepo credential.Repository
	Limiter        ratelimit.Limiter
	Logger         logger.Logger
}

type PublisherImpl struct {
	Registry       *platform.Registry
	CredentialRepo credential.Repository
	Limiter        ratelimit.Limiter
	Logger         logger.Logger

	now func() time.Time
}

func New(opts Opts) *PublisherImpl {
	return &PublisherImpl{
		Registry:       opts.Registry,
		CredentialRepo: opts.CredentialRepo,
		Limiter:        opts.Limiter,
		Logger:         opts.Logger.WithComponent("publisher"),
		now:            time.Now,
	}
}

var _ publisher.Client = (*PublisherImpl)(nil)

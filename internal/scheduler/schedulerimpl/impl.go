package schedulerimpl

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/social-scheduler/internal/publisher"
	"github.com/orgball2608/social-scheduler/internal/recorder"
	"github.com/orgball2608/social-scheduler/internal/repositories/post"
	"github.com/orgball2608/social-scheduler/internal/scheduler"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config    *config.Config
	PostRepo  post.Repository
	Publisher publisher.Client
	Recorder  recorder.Client
	Logger    logger.Logger
}

type SchedulerImpl struct {
	Config    *config.Config
	PostRepo  post.Repository
	Publisher publisher.Client
	Recorder  recorder.Client
	Logger    logger.Logger

	mu        sync.Mutex
	scheduler gocron.Scheduler
	stop      func()

	now func() time.Time
}

func New(opts Opts) *SchedulerImpl {
	return &SchedulerImpl{
		Config:    opts.Config,
		PostRepo:  opts.PostRepo,
		Publisher: opts.Publisher,
		Recorder:  opts.Recorder,
		Logger:    opts.Logger.WithComponent("scheduler"),
		now:       time.Now,
	}
}

var _ scheduler.Client = (*SchedulerImpl)(nil)

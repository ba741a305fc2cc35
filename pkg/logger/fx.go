package logger

import (
	"context"

	"github.com/orgball2608/social-scheduler/pkg/config"
	"go.uber.org/fx"
)

var FxOption = fx.Annotate(
	func(lc fx.Lifecycle, cfg *config.Config) *Impl {
		log := New(
			Opts{
				Env:       cfg.App.Env,
				SentryDSN: cfg.App.SentryUrl,
			},
		)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				Flush(ctx)
				return nil
			},
		})
		return log
	},
	fx.As(new(Logger)),
)

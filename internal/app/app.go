package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/orgball2608/social-scheduler/internal/migrations"
	platforms "github.com/orgball2608/social-scheduler/internal/platform/fx"
	"github.com/orgball2608/social-scheduler/internal/posting"
	"github.com/orgball2608/social-scheduler/internal/posting/postingimpl"
	"github.com/orgball2608/social-scheduler/internal/publisher"
	"github.com/orgball2608/social-scheduler/internal/publisher/publisherimpl"
	"github.com/orgball2608/social-scheduler/internal/ratelimit"
	"github.com/orgball2608/social-scheduler/internal/recorder"
	"github.com/orgball2608/social-scheduler/internal/recorder/recorderimpl"
	repositories "github.com/orgball2608/social-scheduler/internal/repositories/fx"
	"github.com/orgball2608/social-scheduler/internal/scheduler"
	"github.com/orgball2608/social-scheduler/internal/scheduler/schedulerimpl"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/orgball2608/social-scheduler/pkg/pgx"
	"github.com/orgball2608/social-scheduler/pkg/retry"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		ratelimit.New,
	),
	platforms.Module,
	repositories.Module,
	fx.Provide(
		fx.Annotate(
			publisherimpl.New,
			fx.As(new(publisher.Client)),
		),
		fx.Annotate(
			recorderimpl.New,
			fx.As(new(recorder.Client)),
		),
		fx.Annotate(
			schedulerimpl.New,
			fx.As(new(scheduler.Client)),
		),
		fx.Annotate(
			postingimpl.New,
			fx.As(new(posting.Client)),
		),
	),
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(cfg *config.Config, log logger.Logger) error {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	ping := func() error { return db.PingContext(ctx) }
	if err := retry.Do(ctx, log, "MigrationConnect", ping, retry.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Database migrations applied")
	return nil
}

// run ties the scheduler and the health server to the fx lifecycle. posting.Client
// is requested so the on-demand API is built and validated with the rest of the graph.
func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, pool *pgxpool.Pool,
	sched scheduler.Client, _ posting.Client) {
	srv := newHealthServer(cfg.App.Port, newHealthRouter(pool, log))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}
			go func() {
				log.Info(fmt.Sprintf("Starting server on %s", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
				}
			}()

			return sched.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			schedErr := sched.Stop()
			return errors.Join(schedErr, srv.Shutdown(ctx))
		},
	})
}

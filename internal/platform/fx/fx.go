package fx

import (
	"net/http"

	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/internal/platform/facebook"
	"github.com/orgball2608/social-scheduler/internal/platform/linkedin"
	"github.com/orgball2608/social-scheduler/internal/platform/telegram"
	"github.com/orgball2608/social-scheduler/internal/platform/twitter"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"go.uber.org/fx"
)

func asAdapter(f any) any {
	return fx.Annotate(f, fx.ResultTags(`group:"platforms"`))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPClient.Timeout}
}

var Module = fx.Module("platforms",
	fx.Provide(
		newHTTPClient,
		asAdapter(linkedin.New),
		asAdapter(twitter.New),
		asAdapter(facebook.New),
		asAdapter(telegram.New),
		fx.Annotate(platform.NewRegistry, fx.ParamTags(`group:"platforms"`)),
	),
)

package facebook

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Client *http.Client
	Logger logger.Logger
}

type Adapter struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func New(opts Opts) platform.Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(opts.Config.Facebook.BaseURL, "/"),
		client:  opts.Client,
		logger:  opts.Logger.WithComponent("facebook"),
	}
}

var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Platform() domain.Platform { return domain.PlatformFacebook }

func (a *Adapter) MaxContentLength() int { return 0 }

// Publish posts to the feed of the credential's page, or of the token owner
// when no page id is stored.
func (a *Adapter) Publish(ctx context.Context, cred domain.Credential, content string) (string, error) {
	target := cred.AccountID
	if target == "" {
		target = "me"
	}

	form := url.Values{}
	form.Set("message", content)
	form.Set("access_token", cred.AccessToken)

	endpoint := fmt.Sprintf("%s/%s/feed", a.baseURL, url.PathEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		ID string `json:"id"`
	}
	if _, err := platform.Do(a.client, req, domain.PlatformFacebook, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: facebook post has no id", platform.ErrInvalidResponse)
	}

	a.logger.Debug("Facebook post created", "id", resp.ID, "target", target)
	return resp.ID, nil
}

package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

// MaxTweetLength is the character limit of a standard tweet.
const MaxTweetLength = 280

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
		baseURL: strings.TrimRight(opts.Config.Twitter.BaseURL, "/"),
		client:  opts.Client,
		logger:  opts.Logger.WithComponent("twitter"),
	}
}

var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Platform() domain.Platform { return domain.PlatformTwitter }

func (a *Adapter) MaxContentLength() int { return MaxTweetLength }

func (a *Adapter) Publish(ctx context.Context, cred domain.Credential, content string) (string, error) {
	payload, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return "", fmt.Errorf("encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := platform.Do(a.client, req, domain.PlatformTwitter, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("%w: tweet has no id", platform.ErrInvalidResponse)
	}

	a.logger.Debug("Tweet created", "id", resp.Data.ID)
	return resp.Data.ID, nil
}

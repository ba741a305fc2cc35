package linkedin

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

const restliVersion = "2.0.0"

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
		baseURL: strings.TrimRight(opts.Config.LinkedIn.BaseURL, "/"),
		client:  opts.Client,
		logger:  opts.Logger.WithComponent("linkedin"),
	}
}

var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Platform() domain.Platform { return domain.PlatformLinkedIn }

func (a *Adapter) MaxContentLength() int { return 0 }

type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      map[string]any  `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary     commentary `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
}

type commentary struct {
	Text string `json:"text"`
}

// Publish creates a public text share authored by the credential owner.
func (a *Adapter) Publish(ctx context.Context, cred domain.Credential, content string) (string, error) {
	memberID, err := a.memberID(ctx, cred.AccessToken)
	if err != nil {
		return "", fmt.Errorf("resolve linkedin member: %w", err)
	}

	payload, err := json.Marshal(ugcPost{
		Author:         "urn:li:person:" + memberID,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:     commentary{Text: content},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]any{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	})
	if err != nil {
		return "", fmt.Errorf("encode linkedin share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	a.authorize(req, cred.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		ID string `json:"id"`
	}
	header, err := platform.Do(a.client, req, domain.PlatformLinkedIn, &resp)
	if err != nil {
		return "", err
	}

	id := resp.ID
	if id == "" {
		id = header.Get("X-RestLi-Id")
	}
	if id == "" {
		return "", fmt.Errorf("%w: linkedin share has no id", platform.ErrInvalidResponse)
	}

	a.logger.Debug("LinkedIn share created", "id", id)
	return id, nil
}

func (a *Adapter) memberID(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/people/~", nil)
	if err != nil {
		return "", err
	}
	a.authorize(req, token)

	var me struct {
		ID string `json:"id"`
	}
	if _, err := platform.Do(a.client, req, domain.PlatformLinkedIn, &me); err != nil {
		return "", err
	}
	if me.ID == "" {
		return "", fmt.Errorf("%w: linkedin profile has no id", platform.ErrInvalidResponse)
	}
	return me.ID, nil
}

func (a *Adapter) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Restli-Protocol-Version", restliVersion)
}

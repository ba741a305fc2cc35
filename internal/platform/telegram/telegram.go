package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

// MaxMessageLength is the Bot API limit for a text message.
const MaxMessageLength = 4096

type Opts struct {
	fx.In

	Config *config.Config
	Client *http.Client
	Logger logger.Logger
}

// Adapter sends posts as bot messages. The credential access token is the bot
// token and the account id is the target chat: a numeric id or an @channel.
type Adapter struct {
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

func New(opts Opts) platform.Adapter {
	endpoint := opts.Config.Telegram.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Adapter{
		endpoint: endpoint,
		client:   opts.Client,
		logger:   opts.Logger.WithComponent("telegram"),
	}
}

var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Platform() domain.Platform { return domain.PlatformTelegram }

func (a *Adapter) MaxContentLength() int { return MaxMessageLength }

func (a *Adapter) Publish(ctx context.Context, cred domain.Credential, content string) (string, error) {
	chat := strings.TrimSpace(cred.AccountID)
	if chat == "" {
		return "", platform.ErrMissingAccountID
	}

	var msg tgbotapi.MessageConfig
	if strings.HasPrefix(chat, "@") {
		msg = tgbotapi.NewMessageToChannel(chat, content)
	} else {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid telegram chat %q: %w", chat, err)
		}
		msg = tgbotapi.NewMessage(chatID, content)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cred.AccessToken, a.endpoint, a.client)
	if err != nil {
		return "", fmt.Errorf("telegram bot auth failed: %w", err)
	}

	sent, err := bot.Send(msg)
	if err != nil {
		a.logger.Error("Error sending message to chat", "chat", chat, "error", err)
		return "", fmt.Errorf("failed to send telegram message: %w", err)
	}

	a.logger.Debug("Telegram message sent", "chat", chat, "message_id", sent.MessageID)
	return strconv.Itoa(sent.MessageID), nil
}

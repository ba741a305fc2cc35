package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Scheduler struct {
		// Cron expression for the due-post scan; one minute by default.
		Cron            string        `env:"SCHEDULER_CRON" env-default:"* * * * *"`
		Timezone        string        `env:"SCHEDULER_TIMEZONE" env-default:"UTC"`
		Workers         int           `env:"SCHEDULER_WORKERS" env-default:"5"`
		BatchSize       uint64        `env:"SCHEDULER_BATCH_SIZE" env-default:"100"`
		TickTimeout     time.Duration `env:"SCHEDULER_TICK_TIMEOUT" env-default:"5m"`
		StaleClaimAfter time.Duration `env:"SCHEDULER_STALE_CLAIM_AFTER" env-default:"15m"`
		// RunOnStart fires one tick as soon as the scheduler starts.
		RunOnStart      bool          `env:"SCHEDULER_RUN_ON_START" env-default:"true"`
	}
	HTTPClient struct {
		Timeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" env-default:"30s"`
	}
	RateLimit struct {
		Requests int           `env:"PLATFORM_RATE_REQUESTS" env-default:"10"`
		Per      time.Duration `env:"PLATFORM_RATE_PER" env-default:"1s"`
		Burst    int           `env:"PLATFORM_RATE_BURST" env-default:"5"`
	}
	LinkedIn struct {
		BaseURL string `env:"LINKEDIN_API_URL" env-default:"https://api.linkedin.com/v2"`
	}
	Twitter struct {
		BaseURL string `env:"TWITTER_API_URL" env-default:"https://api.twitter.com/2"`
	}
	Facebook struct {
		BaseURL string `env:"FACEBOOK_API_URL" env-default:"https://graph.facebook.com/v18.0"`
	}
	Telegram struct {
		// Bot API endpoint format, filled with the bot token and method name.
		Endpoint string `env:"TELEGRAM_API_ENDPOINT" env-default:"https://api.telegram.org/bot%s/%s"`
	}
}

// GetDSN returns the lib/pq style connection string used by goose. Values are
// quoted so empty ones and ones with spaces keep their place.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		quoteDSN(c.Postgres.Name),
		quoteDSN(c.Postgres.User),
		quoteDSN(c.Postgres.Pass),
		quoteDSN(c.Postgres.Host),
		c.Postgres.Port,
		quoteDSN(c.Postgres.SslMode),
	)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// GetURL returns the postgres:// connection string used by pgxpool.
func (c *Config) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

// New returns the process configuration, reading the environment once.
func New() (*Config, error) {
	once.Do(func() {
		cfg, loadErr = Load()
	})
	return cfg, loadErr
}

// Load reads a fresh Config from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		help, _ := cleanenv.GetDescription(c, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}
	return c, nil
}

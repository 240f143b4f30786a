package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" toml:"token" envconfig:"TELEGRAM_TOKEN"`
	AdminID int64  `yaml:"admin_id" toml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" toml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" toml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// APIURL points at a self-hosted Bot API server; empty selects api.telegram.org.
	APIURL string `yaml:"api_url" toml:"api_url" envconfig:"TELEGRAM_API_URL"`
}

// WebhookConfig specifies webhook and serverless listener settings.
// URL is required for the webhook mode only: in serverless mode the
// hosting platform owns the public endpoint.
type WebhookConfig struct {
	URL    string `yaml:"url" toml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" toml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" toml:"port" envconfig:"WEBHOOK_PORT"`
	Path   string `yaml:"path" toml:"path" envconfig:"WEBHOOK_PATH"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" toml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" toml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order" toml:"keys_order"`
	DebugSample string `yaml:"debug_sample" toml:"debug_sample"`
	Dir         string `yaml:"dir" toml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file" toml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" toml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeServerless serves one update per HTTP request and answers only
	// after the update has been handled.
	RunModeServerless = "serverless"
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram" toml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook" toml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// Decode fills out from the file at path and then from the environment.
// The file format follows the extension (.toml, otherwise YAML). An empty
// path skips the file and reads the environment only.
func Decode(path string, out any) error {
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("failed to process env: %w", err)
	}
	return nil
}

// Load reads the core configuration from a file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeServerless:
		if cfg.Webhook.Port <= 0 {
			cfg.Webhook.Port = 3000
		}
		if strings.TrimSpace(cfg.Webhook.Path) == "" {
			cfg.Webhook.Path = "/api/webhook"
		}
		if !strings.HasPrefix(cfg.Webhook.Path, "/") {
			cfg.Webhook.Path = "/" + cfg.Webhook.Path
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: serverless, webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm
	cfg.Telegram.APIURL = strings.TrimRight(strings.TrimSpace(cfg.Telegram.APIURL), "/")
	return nil
}

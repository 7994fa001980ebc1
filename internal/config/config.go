package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Market    MarketConfig    `mapstructure:"market"`
	News      NewsConfig      `mapstructure:"news"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Notifiers NotifiersConfig `mapstructure:"notifiers"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	History   HistoryConfig   `mapstructure:"history"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	APIKey      string   `mapstructure:"api_key"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// SessionConfig holds the trading calendar and refresh cadence.
type SessionConfig struct {
	Timezone         string        `mapstructure:"timezone"`
	OpenHour         int           `mapstructure:"open_hour"`
	CloseHour        int           `mapstructure:"close_hour"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	AnalysisInterval time.Duration `mapstructure:"analysis_interval"`
	Policy           string        `mapstructure:"policy"` // "time", "content" or "both"
	MinGap           time.Duration `mapstructure:"min_gap"`
}

// Location resolves the configured time zone.
func (s SessionConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("timezone %q: %w", s.Timezone, err))
	}
	return loc, nil
}

type MarketConfig struct {
	Instruments []core.Instrument `mapstructure:"instruments"`
	Timeout     time.Duration     `mapstructure:"timeout"`
}

type NewsConfig struct {
	Sources   []string      `mapstructure:"sources"`
	PerSource int           `mapstructure:"per_source"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Claude   ClaudeConfig  `mapstructure:"claude"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Ollama   OllamaConfig  `mapstructure:"ollama"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ArchiveConfig controls the write-only report archive.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type NotifiersConfig struct {
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type WebhookConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HistoryConfig bounds the in-session report history.
type HistoryConfig struct {
	MaxReports int `mapstructure:"max_reports"`
}

// Load reads configuration from file on top of Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if len(cfg.Market.Instruments) == 0 {
		cfg.Market.Instruments = DefaultInstruments()
	}

	return &cfg, nil
}

// setDefaults mirrors Defaults for keys viper resolves by name.
func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("session.timezone", d.Session.Timezone)
	v.SetDefault("session.open_hour", d.Session.OpenHour)
	v.SetDefault("session.close_hour", d.Session.CloseHour)
	v.SetDefault("session.refresh_interval", d.Session.RefreshInterval)
	v.SetDefault("session.analysis_interval", d.Session.AnalysisInterval)
	v.SetDefault("session.policy", d.Session.Policy)
	v.SetDefault("session.min_gap", d.Session.MinGap)

	v.SetDefault("market.timeout", d.Market.Timeout)

	v.SetDefault("news.sources", d.News.Sources)
	v.SetDefault("news.per_source", d.News.PerSource)
	v.SetDefault("news.timeout", d.News.Timeout)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.claude.api_key", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.ollama.endpoint", d.LLM.Ollama.Endpoint)

	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("history.max_reports", d.History.MaxReports)
}

// DefaultInstruments are the dashboard's two market boxes.
func DefaultInstruments() []core.Instrument {
	return []core.Instrument{
		{Symbol: "NQ=F", Label: "US100 FUTURES"},
		{Symbol: "SEK=X", Label: "USD / SEK"},
	}
}

// DefaultNewsSources are the CNBC markets and Investing.com news feeds.
func DefaultNewsSources() []string {
	return []string{
		"https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=19854910",
		"https://www.investing.com/rss/news_25.rss",
	}
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Mode:        "release",
			CORSOrigins: []string{"*"},
		},
		Session: SessionConfig{
			Timezone:         "Europe/Stockholm",
			OpenHour:         15,
			CloseHour:        22,
			RefreshInterval:  60 * time.Second,
			AnalysisInterval: 30 * time.Minute,
			Policy:           "time",
			MinGap:           5 * time.Minute,
		},
		Market: MarketConfig{
			Instruments: DefaultInstruments(),
			Timeout:     10 * time.Second,
		},
		News: NewsConfig{
			Sources:   DefaultNewsSources(),
			PerSource: 3,
			Timeout:   10 * time.Second,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Timeout:  60 * time.Second,
			Gemini:   GeminiConfig{Model: "gemini-2.5-pro"},
			Ollama:   OllamaConfig{Endpoint: "http://localhost:11434"},
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "./data/archive",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		History: HistoryConfig{
			MaxReports: 100,
		},
	}
}

// Validate checks the configuration for errors. Missing LLM credentials are
// not an error here: the dashboard runs with the analysis disabled instead.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// Session validation
	if _, err := c.Session.Location(); err != nil {
		return err
	}
	if c.Session.OpenHour < 0 || c.Session.OpenHour > 23 || c.Session.CloseHour < 0 || c.Session.CloseHour > 23 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("session hours must be between 0 and 23, got open=%d close=%d", c.Session.OpenHour, c.Session.CloseHour))
	}
	if c.Session.OpenHour >= c.Session.CloseHour {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("open_hour (%d) must be before close_hour (%d)", c.Session.OpenHour, c.Session.CloseHour))
	}
	if c.Session.RefreshInterval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("refresh_interval must be positive, got %s", c.Session.RefreshInterval))
	}
	if c.Session.AnalysisInterval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("analysis_interval must be positive, got %s", c.Session.AnalysisInterval))
	}
	if c.Session.MinGap < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_gap cannot be negative, got %s", c.Session.MinGap))
	}
	switch c.Session.Policy {
	case "", "time", "content", "both":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("policy must be one of time, content, both, got %q", c.Session.Policy))
	}

	// News validation
	if c.News.PerSource < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("per_source cannot be negative, got %d", c.News.PerSource))
	}

	// LLM validation - unknown providers are a typo, not a missing key
	switch c.LLM.Provider {
	case "", "claude", "openai", "ollama", "gemini":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}

	// Archive validation
	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive s3 bucket required when type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
		}
	}

	// Notifier validation
	if c.Notifiers.Webhook.Enabled && c.Notifiers.Webhook.URL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("webhook url required when webhook notifier is enabled"))
	}
	if c.Notifiers.Telegram.Enabled && (c.Notifiers.Telegram.BotToken == "" || c.Notifiers.Telegram.ChatID == "") {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("telegram bot_token and chat_id required when telegram notifier is enabled"))
	}

	if c.History.MaxReports < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_reports cannot be negative, got %d", c.History.MaxReports))
	}

	return nil
}

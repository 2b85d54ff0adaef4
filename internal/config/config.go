package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	MigrationsDir    string        `mapstructure:"MIGRATIONS_DIR"`
	LLMProvider      string        `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey        string        `mapstructure:"LLM_API_KEY"`
	LLMBaseURL       string        `mapstructure:"LLM_BASE_URL"`
	LLMModel         string        `mapstructure:"LLM_MODEL"`
	LLMTimeout       time.Duration `mapstructure:"LLM_TIMEOUT"`
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	ReportChatID     int64         `mapstructure:"REPORT_CHAT_ID"`
	ReportFontPaths  []string      `mapstructure:"REPORT_FONT_PATHS"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"PORT",
	"ENV",
	"DATABASE_URL",
	"MIGRATIONS_DIR",
	"LLM_PROVIDER",
	"LLM_API_KEY",
	"LLM_BASE_URL",
	"LLM_MODEL",
	"LLM_TIMEOUT",
	"TELEGRAM_BOT_TOKEN",
	"REPORT_CHAT_ID",
	"REPORT_FONT_PATHS",
	"CORS_ORIGINS",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("LLM_PROVIDER", "none")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	for _, k := range keys {
		v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma separated env values arrive as a single element.
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.ReportFontPaths = splitList(cfg.ReportFontPaths)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesDatabase reports whether a Postgres store is configured; without one
// the service keeps sessions in memory.
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LLMProvider) {
	case "", "none", "openai", "deepseek", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of none, openai, deepseek, gemini; got %q", c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	if c.ReportChatID != 0 && c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when REPORT_CHAT_ID is set")
	}
	return nil
}

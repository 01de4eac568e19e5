package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the scoring service the client talks to unless configured otherwise.
const DefaultBaseURL = "https://nytsudoku.onrender.com"

// Config struct to hold the configuration settings
type Config struct {
	Scoring       ScoringConfig       `yaml:"scoring"`
	HTTP          HTTPConfig          `yaml:"http"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ScoringConfig holds the remote scoring service settings.
type ScoringConfig struct {
	BaseURL string `yaml:"base_url"`
	// RequestTimeout of zero means requests never time out.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UserAgent      string        `yaml:"user_agent"`
}

// HTTPConfig holds settings for the local web shell.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// LeaderboardConfig holds leaderboard presentation defaults.
type LeaderboardConfig struct {
	DefaultSort string `yaml:"default_sort"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // text|json
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	Environment    string `yaml:"environment"`
}

// Default returns the configuration used when no file and no environment overrides are present.
func Default() *Config {
	return &Config{
		Scoring: ScoringConfig{
			BaseURL: DefaultBaseURL,
		},
		HTTP: HTTPConfig{
			Address:   ":8080",
			RateLimit: 5,
			RateBurst: 10,
		},
		Leaderboard: LeaderboardConfig{
			DefaultSort: "overall_avg",
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "text",
			MetricsEnabled: true,
			Environment:    "development",
		},
	}
}

// LoadConfig loads the configuration from a YAML file.
// A missing file is not an error: defaults plus environment variables are used instead.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// --- OVERRIDE WITH ENV VARS IF PRESENT ---
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SCORING_BASE_URL"); v != "" {
		cfg.Scoring.BaseURL = v
	}
	if v := os.Getenv("SCORING_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_REQUEST_TIMEOUT value: %v", err)
		}
		cfg.Scoring.RequestTimeout = d
	}
	if v := os.Getenv("SCORING_USER_AGENT"); v != "" {
		cfg.Scoring.UserAgent = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("HTTP_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_BURST value: %v", err)
		}
		cfg.HTTP.RateBurst = n
	}
	if v := os.Getenv("LEADERBOARD_DEFAULT_SORT"); v != "" {
		cfg.Leaderboard.DefaultSort = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Scoring.BaseURL) == "" {
		return errors.New("scoring.base_url must not be empty")
	}
	if c.Scoring.RequestTimeout < 0 {
		return errors.New("scoring.request_timeout must not be negative")
	}
	switch c.Observability.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Observability.LogFormat)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

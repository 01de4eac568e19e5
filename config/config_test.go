package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "missing file falls back to defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultBaseURL, cfg.Scoring.BaseURL)
				assert.Equal(t, time.Duration(0), cfg.Scoring.RequestTimeout)
				assert.Equal(t, "overall_avg", cfg.Leaderboard.DefaultSort)
				assert.Equal(t, ":8080", cfg.HTTP.Address)
			},
		},
		{
			name: "file values override defaults",
			yaml: "scoring:\n  base_url: http://localhost:9000\n  request_timeout: 5s\nobservability:\n  log_format: json\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:9000", cfg.Scoring.BaseURL)
				assert.Equal(t, 5*time.Second, cfg.Scoring.RequestTimeout)
				assert.Equal(t, "json", cfg.Observability.LogFormat)
				assert.Equal(t, "info", cfg.Observability.LogLevel)
			},
		},
		{
			name: "env overrides file",
			yaml: "scoring:\n  base_url: http://localhost:9000\n",
			env: map[string]string{
				"SCORING_BASE_URL":     "http://scores.internal",
				"HTTP_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
				"METRICS_ENABLED":      "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://scores.internal", cfg.Scoring.BaseURL)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
				assert.False(t, cfg.Observability.MetricsEnabled)
			},
		},
		{
			name:    "invalid timeout in env",
			env:     map[string]string{"SCORING_REQUEST_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "unsupported log format",
			yaml:    "observability:\n  log_format: xml\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "scoring: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			}

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

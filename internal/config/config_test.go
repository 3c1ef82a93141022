package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/sb-price-watch/internal/feed"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults applied for empty config",
			yaml: `{}`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, feed.DefaultURL, cfg.Feed.URL)
				assert.Equal(t, 30*time.Second, cfg.Feed.Timeout)
				assert.Equal(t, 5*time.Second, cfg.Feed.MinInterval)
				assert.Equal(t, 30*time.Second, cfg.Schedule.Interval)
				assert.Equal(t, 10*time.Second, cfg.Notifications.Discord.Timeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.False(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, "sb-price-watch", cfg.Telemetry.ServiceName)
				assert.Equal(t, time.Minute, cfg.Telemetry.MetricInterval)
			},
		},
		{
			name: "env var substitution",
			yaml: `
notifications:
  discord:
    webhook_url: "${TEST_SB_WEBHOOK}"
`,
			envVars: map[string]string{
				"TEST_SB_WEBHOOK": "https://discord.com/api/webhooks/1/abc",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://discord.com/api/webhooks/1/abc", cfg.Notifications.Discord.WebhookURL)
			},
		},
		{
			name: "DISCORD_WEBHOOK fallback",
			yaml: `{}`,
			envVars: map[string]string{
				"DISCORD_WEBHOOK": "https://discord.com/api/webhooks/2/def",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://discord.com/api/webhooks/2/def", cfg.Notifications.Discord.WebhookURL)
			},
		},
		{
			name: "explicit webhook wins over DISCORD_WEBHOOK",
			yaml: `
notifications:
  discord:
    webhook_url: https://discord.com/api/webhooks/3/ghi
`,
			envVars: map[string]string{
				"DISCORD_WEBHOOK": "https://discord.com/api/webhooks/2/def",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://discord.com/api/webhooks/3/ghi", cfg.Notifications.Discord.WebhookURL)
			},
		},
		{
			name: "invalid port",
			yaml: `
server:
  port: 70000
`,
			wantErr: "server.port must be between 1 and 65535 (got 70000)",
		},
		{
			name: "relative feed url",
			yaml: `
feed:
  url: /live_data_sb_EUR.json
`,
			wantErr: "feed.url must be an absolute URL",
		},
		{
			name: "sub-second schedule",
			yaml: `
schedule:
  interval: 500ms
`,
			wantErr: "schedule.interval must be at least 1s (got 500ms)",
		},
		{
			name: "negative feed durations",
			yaml: `
feed:
  timeout: -1s
  min_interval: -1s
`,
			wantErr: "feed.min_interval must not be negative",
		},
		{
			name: "invalid webhook url",
			yaml: `
notifications:
  discord:
    webhook_url: not-a-url
`,
			wantErr: "notifications.discord.webhook_url must be an absolute URL",
		},
		{
			name: "negative webhook timeout",
			yaml: `
notifications:
  discord:
    timeout: -1s
`,
			wantErr: "notifications.discord.timeout must not be negative",
		},
		{
			name: "invalid logging format",
			yaml: `
logging:
  format: xml
`,
			wantErr: `logging.format must be one of: text, json (got "xml")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
feed:
  url: http://localhost:8089/live_data_sb_EUR.json
  timeout: 10s
  min_interval: 1s
schedule:
  interval: 2m
notifications:
  discord:
    webhook_url: https://discord.com/api/webhooks/123
    timeout: 3s
logging:
  level: debug
  format: json
telemetry:
  enabled: true
  endpoint: otel-collector:4317
  insecure: true
  service_name: sbwatch-dev
  metric_interval: 15s
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "http://localhost:8089/live_data_sb_EUR.json", cfg.Feed.URL)
				assert.Equal(t, 10*time.Second, cfg.Feed.Timeout)
				assert.Equal(t, time.Second, cfg.Feed.MinInterval)
				assert.Equal(t, 2*time.Minute, cfg.Schedule.Interval)
				assert.Equal(t, "https://discord.com/api/webhooks/123", cfg.Notifications.Discord.WebhookURL)
				assert.Equal(t, 3*time.Second, cfg.Notifications.Discord.Timeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.True(t, cfg.Telemetry.Insecure)
				assert.Equal(t, "otel-collector:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, "sbwatch-dev", cfg.Telemetry.ServiceName)
				assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Schedule.Interval)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SBWATCH_TEST_DOTENV=from-file\nSBWATCH_TEST_PRESET=from-file\n"), 0o644))

	t.Setenv("SBWATCH_TEST_PRESET", "from-env")
	// Registers cleanup so the loaded variable does not leak.
	t.Setenv("SBWATCH_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SBWATCH_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("SBWATCH_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("SBWATCH_TEST_PRESET"))
}

func TestLoadDotEnv_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEY='unterminated\n"), 0o644))

	err := LoadDotEnv(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", s.Addr())
}

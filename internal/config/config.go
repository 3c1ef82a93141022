// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/sb-price-watch/internal/feed"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "config.yaml"

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Feed          FeedConfig          `yaml:"feed"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// FeedConfig defines the Server Bourse feed endpoint.
type FeedConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	MinInterval time.Duration `yaml:"min_interval"`
}

// ScheduleConfig defines the reconcile cadence.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings. An empty URL disables
// notifications.
type DiscordConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TelemetryConfig defines the OTLP trace and metric exporters.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// Addr returns the listen address of the HTTP server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A missing file at DefaultPath yields the
// defaults; any other missing path is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	switch {
	case err == nil:
		// Expand environment variables in the YAML content.
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyFeedDefaults(&cfg.Feed)
	applyScheduleDefaults(&cfg.Schedule)
	applyNotificationDefaults(&cfg.Notifications)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyFeedDefaults(f *FeedConfig) {
	if f.URL == "" {
		f.URL = feed.DefaultURL
	}
	if f.Timeout == 0 {
		f.Timeout = 30 * time.Second
	}
	if f.MinInterval == 0 {
		f.MinInterval = feed.DefaultMinInterval
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Interval == 0 {
		s.Interval = 30 * time.Second
	}
}

func applyNotificationDefaults(n *NotificationsConfig) {
	if n.Discord.WebhookURL == "" {
		n.Discord.WebhookURL = os.Getenv("DISCORD_WEBHOOK")
	}
	if n.Discord.Timeout == 0 {
		n.Discord.Timeout = 10 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "sb-price-watch"
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = time.Minute
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if u, err := url.Parse(cfg.Feed.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("feed.url must be an absolute URL (got %q)", cfg.Feed.URL))
	}
	if cfg.Feed.Timeout < 0 {
		errs = append(errs, fmt.Errorf("feed.timeout must not be negative"))
	}
	if cfg.Feed.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("feed.min_interval must not be negative"))
	}

	if cfg.Schedule.Interval < time.Second {
		errs = append(errs, fmt.Errorf("schedule.interval must be at least 1s (got %s)", cfg.Schedule.Interval))
	}

	if w := cfg.Notifications.Discord.WebhookURL; w != "" {
		if u, err := url.Parse(w); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.discord.webhook_url must be an absolute URL"))
		}
	}
	if cfg.Notifications.Discord.Timeout < 0 {
		errs = append(errs, fmt.Errorf("notifications.discord.timeout must not be negative"))
	}

	if cfg.Telemetry.MetricInterval < time.Second {
		errs = append(errs, fmt.Errorf("telemetry.metric_interval must be at least 1s"))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

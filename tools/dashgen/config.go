package main

import "errors"

// KnownMetrics is the set of metric names exported by sbwatch plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"sbwatch_http_request_duration_seconds": true,
	"sbwatch_http_requests_total":           true,
	"sbwatch_healthz_up":                    true,

	// Feed metrics.
	"sbwatch_feed_fetch_duration_seconds": true,
	"sbwatch_feed_errors_total":           true,
	"sbwatch_feed_servers":                true,

	// Reconcile metrics.
	"sbwatch_reconcile_duration_seconds": true,
	"sbwatch_reconcile_skipped_total":    true,
	"sbwatch_watched_servers":            true,
	"sbwatch_price_increases_total":      true,
	"sbwatch_servers_removed_total":      true,

	// Notification metrics.
	"sbwatch_notifications_sent_total":      true,
	"sbwatch_notification_failures_total":   true,
	"sbwatch_notification_duration_seconds": true,

	// Recording rules.
	"sbwatch:http_requests:rate5m":         true,
	"sbwatch:http_errors:rate5m":           true,
	"sbwatch:feed_errors:rate5m":           true,
	"sbwatch:feed_fetch_duration:p95_5m":   true,
	"sbwatch:reconcile_duration:p95_5m":    true,
	"sbwatch:notification_duration:p95_5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}

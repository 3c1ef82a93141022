package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newRule("sbwatch-recording-rules", RuleGroup{
		Name: "sbwatch-recording",
		Rules: []Rule{
			{
				Record: "sbwatch:http_requests:rate5m",
				Expr:   `sum(rate(sbwatch_http_requests_total[5m]))`,
			},
			{
				Record: "sbwatch:http_errors:rate5m",
				Expr:   `sum(rate(sbwatch_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "sbwatch:feed_errors:rate5m",
				Expr:   `rate(sbwatch_feed_errors_total[5m])`,
			},
			{
				Record: "sbwatch:feed_fetch_duration:p95_5m",
				Expr:   `histogram_quantile(0.95, sum(rate(sbwatch_feed_fetch_duration_seconds_bucket[5m])) by (le))`,
			},
			{
				Record: "sbwatch:reconcile_duration:p95_5m",
				Expr:   `histogram_quantile(0.95, sum(rate(sbwatch_reconcile_duration_seconds_bucket[5m])) by (le))`,
			},
			{
				Record: "sbwatch:notification_duration:p95_5m",
				Expr:   `histogram_quantile(0.95, sum(rate(sbwatch_notification_duration_seconds_bucket[5m])) by (le))`,
			},
		},
	})
}

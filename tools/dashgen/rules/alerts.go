package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// sbwatch operational monitoring.
func AlertRules() PrometheusRule {
	return newRule("sbwatch-alerts", RuleGroup{
		Name: "sbwatch-alerts",
		Rules: []Rule{
			{
				Alert:  "SbwatchDown",
				Expr:   `absent(up{job="sb-price-watch"})`,
				For:    "2m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "sbwatch is down",
					"description": "The sb-price-watch job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert:  "SbwatchFeedUnavailable",
				Expr:   `sbwatch:feed_errors:rate5m > 0`,
				For:    "10m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Server Bourse feed is failing",
					"description": "Feed fetches have been failing for 10 minutes; price changes are not being tracked.",
				},
			},
			{
				Alert:  "SbwatchFeedSlow",
				Expr:   `sbwatch:feed_fetch_duration:p95_5m > 20`,
				For:    "15m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Server Bourse feed downloads are slow",
					"description": "p95 feed fetch time has been above 20s for 15 minutes.",
				},
			},
			{
				Alert:  "SbwatchHighErrorRate",
				Expr:   `sbwatch:http_errors:rate5m / sbwatch:http_requests:rate5m > 0.05`,
				For:    "5m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "High API error rate on sbwatch",
					"description": "More than 5% of API requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert:  "SbwatchNotificationFailures",
				Expr:   `increase(sbwatch_notification_failures_total[5m]) > 0`,
				For:    "1m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Notification delivery failures detected",
					"description": "One or more Discord webhook calls have failed; the messages were dropped.",
				},
			},
		},
	})
}

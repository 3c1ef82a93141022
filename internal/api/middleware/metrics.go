// Package middleware provides Echo middleware for the sb-price-watch API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/sb-price-watch/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// arbitrary client paths out of the label set.
const unmatchedRoute = "unmatched"

// Metrics counts and times API requests per route template. Scrapes of
// /metrics are not recorded; /healthz only drives the HealthzUp gauge.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status

			route := c.Path()
			switch route {
			case "/metrics":
				return err
			case "/healthz":
				if status >= 200 && status < 300 {
					metrics.HealthzUp.Set(1)
				} else {
					metrics.HealthzUp.Set(0)
				}
				return err
			case "", "/*":
				route = unmatchedRoute
			}

			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}

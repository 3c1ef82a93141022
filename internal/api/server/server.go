// Package server assembles the echo router: middleware, liveness, the
// Prometheus scrape endpoint, the huma operator API and its Swagger UI.
package server

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/sb-price-watch/api/openapi"
	"github.com/donaldgifford/sb-price-watch/internal/api/handlers"
	"github.com/donaldgifford/sb-price-watch/internal/api/middleware"
	"github.com/donaldgifford/sb-price-watch/internal/feed"
	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
)

// Deps are the collaborators served over HTTP.
type Deps struct {
	Watches    *watchlist.Store
	Reconciler handlers.Reconciler
	Fetcher    feed.Fetcher
	Version    string
}

// New returns a configured echo instance. It does not start listening.
func New(deps Deps, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	e.GET("/healthz", handlers.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("sb-price-watch", deps.Version))
	openapi.RegisterRoutes(e, openapi.DefaultSpecPath)

	handlers.RegisterWatchRoutes(api, handlers.NewWatchHandler(deps.Watches))
	handlers.RegisterReconcileRoutes(api, handlers.NewReconcileHandler(deps.Reconciler))
	handlers.RegisterFeedRoutes(api, handlers.NewFeedHandler(deps.Fetcher))

	return e
}

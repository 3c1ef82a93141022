// Package engine reconciles the watch list against the Server Bourse feed.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/donaldgifford/sb-price-watch/internal/feed"
	"github.com/donaldgifford/sb-price-watch/internal/metrics"
	"github.com/donaldgifford/sb-price-watch/internal/notify"
	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	"github.com/donaldgifford/sb-price-watch/pkg/pricing"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// Engine reconciles the watch list against the live feed.
type Engine struct {
	watches  *watchlist.Store
	fetcher  feed.Fetcher
	notifier notify.Notifier
	log      *slog.Logger

	meters metric.MeterProvider
	runs   metric.Int64Counter

	notifyTimeout time.Duration

	// mu serializes the fetch-and-apply phase of reconcile runs. It is
	// released before notifications go out.
	mu sync.Mutex
}

// DefaultNotifyTimeout bounds delivery of one notification.
const DefaultNotifyTimeout = 15 * time.Second

// Result summarizes one reconcile run.
type Result struct {
	Skipped     bool `json:"skipped"      doc:"True when the watch list was empty and no fetch happened"`
	ServerCount int  `json:"server_count" doc:"Number of records in the fetched snapshot"`
	Checked     int  `json:"checked"      doc:"Watched IDs examined this run"`
	Increased   int  `json:"increased"    doc:"Watched servers whose price went up"`
	Removed     int  `json:"removed"      doc:"Watched servers dropped because they left the feed"`
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	w *watchlist.Store,
	f feed.Fetcher,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		watches:  w,
		fetcher:  f,
		notifier: n,
		log:      slog.Default(),
		meters:   otel.GetMeterProvider(),

		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(eng)
	}

	runs, err := eng.meters.Meter("sbwatch/engine").Int64Counter(
		"sbwatch.reconcile.runs",
		metric.WithDescription("Reconcile runs by outcome."),
	)
	if err != nil {
		eng.log.Warn("creating reconcile run counter", "error", err)
	}
	eng.runs = runs
	return eng
}

func (eng *Engine) countRun(ctx context.Context, outcome string) {
	if eng.runs == nil {
		return
	}
	eng.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) EngineOption {
	return func(e *Engine) {
		e.meters = mp
	}
}

// WithNotifyTimeout bounds each notification send. Non-positive values keep
// the default.
func WithNotifyTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.notifyTimeout = d
		}
	}
}

// RunReconcile fetches one snapshot and applies it to every watched server.
// An empty watch list short-circuits without touching the feed. A failed
// fetch leaves the watch list untouched and returns an error wrapping
// feed.ErrFeedUnavailable.
//
// Notifications are sent after the engine lock is released, each on a
// context detached from ctx's cancellation and bounded by the notify
// timeout. The watch list change they describe is already committed, so a
// caller going away must not drop them.
func (eng *Engine) RunReconcile(ctx context.Context) (*Result, error) {
	res, messages, err := eng.reconcile(ctx)
	if err != nil {
		return nil, err
	}

	eng.deliver(ctx, messages)
	return res, nil
}

func (eng *Engine) deliver(ctx context.Context, messages []string) {
	base := context.WithoutCancel(ctx)
	for _, msg := range messages {
		sctx, cancel := context.WithTimeout(base, eng.notifyTimeout)
		eng.notifier.Send(sctx, msg)
		cancel()
	}
}

func (eng *Engine) reconcile(ctx context.Context) (*Result, []string, error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	defer func() {
		metrics.WatchedServers.Set(float64(eng.watches.Len()))
	}()

	ids := eng.watches.IDs()
	if len(ids) == 0 {
		metrics.ReconcileSkippedTotal.Inc()
		eng.countRun(ctx, "skipped")
		eng.log.Debug("watch list empty, skipping reconcile")
		return &Result{Skipped: true}, nil, nil
	}

	ctx, span := otel.Tracer("sbwatch/engine").Start(ctx, "engine.reconcile")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	snap, err := eng.fetcher.Fetch(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		eng.countRun(ctx, "feed_error")
		return nil, nil, fmt.Errorf("fetching feed: %w", err)
	}

	res := &Result{ServerCount: len(snap.Servers)}
	index := snap.Index()

	var messages []string
	for _, id := range ids {
		n, parseErr := domain.ParseID(id)
		if parseErr != nil {
			eng.log.Warn("skipping unparseable watch id", "id", id, "error", parseErr)
			continue
		}
		res.Checked++

		if rec, ok := index[n]; ok {
			if msg, increased := eng.applyRecord(id, rec); increased {
				res.Increased++
				messages = append(messages, msg)
			}
			continue
		}

		if msg, removed := eng.dropVanished(id); removed {
			res.Removed++
			messages = append(messages, msg)
		}
	}

	span.SetAttributes(
		attribute.Int("reconcile.checked", res.Checked),
		attribute.Int("reconcile.increased", res.Increased),
		attribute.Int("reconcile.removed", res.Removed),
	)

	eng.countRun(ctx, "ok")

	eng.log.Debug("reconcile complete",
		"servers", res.ServerCount,
		"checked", res.Checked,
		"increased", res.Increased,
		"removed", res.Removed,
	)

	return res, messages, nil
}

// applyRecord stores the latest datacenter and, when the price went up,
// advances the baseline and returns the notification text. A price drop
// leaves the baseline where it was.
func (eng *Engine) applyRecord(id string, rec *domain.ServerRecord) (string, bool) {
	price := pricing.ServerPrice(rec)

	var (
		msg       string
		increased bool
	)
	found := eng.watches.Update(id, func(e *domain.WatchEntry) {
		e.Meta.Datacenter = rec.Datacenter

		prev := e.Meta.PreviousPrice
		if price != prev && prev < price {
			msg = fmt.Sprintf(
				"Server with the ID %s has been updated from %s to %s in the datacenter %s",
				id, pricing.Format(prev), pricing.Format(price), rec.Datacenter,
			)
			e.Meta.PreviousPrice = price
			increased = true
		}
	})
	if !found {
		eng.log.Debug("watch removed during reconcile", "id", id)
		return "", false
	}

	if increased {
		metrics.PriceIncreasesTotal.Inc()
		eng.log.Info(msg, "id", id, "price", price, "datacenter", rec.Datacenter)
	}
	return msg, increased
}

// dropVanished removes a watched server that no longer appears in the feed.
func (eng *Engine) dropVanished(id string) (string, bool) {
	entry, ok := eng.watches.FindByID(id)
	if !ok {
		return "", false
	}

	msg := fmt.Sprintf(
		"Server with the ID %s has been deleted last price was %s in the datacenter %s",
		id, pricing.Format(entry.Meta.PreviousPrice), entry.Meta.Datacenter,
	)

	if !eng.watches.RemoveByID(id) {
		return "", false
	}

	metrics.ServersRemovedTotal.Inc()
	eng.log.Info(msg, "id", id, "datacenter", entry.Meta.Datacenter)
	return msg, true
}

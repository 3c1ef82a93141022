package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/sb-price-watch/internal/api/server"
	"github.com/donaldgifford/sb-price-watch/internal/config"
	"github.com/donaldgifford/sb-price-watch/internal/console"
	"github.com/donaldgifford/sb-price-watch/internal/engine"
	"github.com/donaldgifford/sb-price-watch/internal/feed"
	"github.com/donaldgifford/sb-price-watch/internal/notify"
	"github.com/donaldgifford/sb-price-watch/internal/telemetry"
	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	"github.com/donaldgifford/sb-price-watch/pkg/logger"
)

const startupMessage = "Bot has been started"

func serveCmd() *cobra.Command {
	var noConsole bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the watcher, API server and scheduler",
		Long: "Start the reconcile scheduler and the HTTP API. Unless --no-console\n" +
			"is set, operator commands such as addServer <Auction-ID> are read\n" +
			"from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), noConsole)
		},
	}
	cmd.Flags().BoolVar(&noConsole, "no-console", false, "do not read commands from stdin")

	return cmd
}

// loadConfig loads .env then the YAML config and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return cfg, log, nil
}

func newFetcher(cfg *config.FeedConfig) *feed.HTTPClient {
	return feed.NewHTTPClient(
		feed.WithFeedURL(cfg.URL),
		feed.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		feed.WithMinInterval(cfg.MinInterval),
	)
}

// announceStartup sends the startup message in the background so an
// unreachable webhook cannot delay startup.
func announceStartup(ctx context.Context, n notify.Notifier, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		n.Send(sctx, startupMessage)
	}()
	return done
}

func runServe(parent context.Context, noConsole bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		MetricInterval: cfg.Telemetry.MetricInterval,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	watches := watchlist.New()
	fetcher := newFetcher(&cfg.Feed)
	discord := cfg.Notifications.Discord
	notifier := notify.New(discord.WebhookURL, log,
		notify.WithHTTPClient(&http.Client{Timeout: discord.Timeout}),
	)
	if cfg.Notifications.Discord.WebhookURL == "" {
		log.Warn("no Discord webhook configured, notifications are disabled")
	}

	eng := engine.NewEngine(watches, fetcher, notifier,
		engine.WithLogger(log),
		engine.WithNotifyTimeout(discord.Timeout),
	)
	sched, err := engine.NewScheduler(eng, cfg.Schedule.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := server.New(server.Deps{
		Watches:    watches,
		Reconciler: eng,
		Fetcher:    fetcher,
		Version:    Version,
	}, log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	announceStartup(ctx, notifier, discord.Timeout)
	sched.Start()

	addr := cfg.Server.Addr()
	log.Info("starting server", "addr", addr, "feed", cfg.Feed.URL, "interval", cfg.Schedule.Interval)

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if !noConsole {
		con := console.New(watches, console.WithLogger(log))
		go func() {
			if err := con.Run(ctx); err != nil {
				log.Error("console stopped", "error", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-serverErr:
		log.Error("server error", "error", runErr)
	}

	<-sched.Stop().Done()

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return runErr
}

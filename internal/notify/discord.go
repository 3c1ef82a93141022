package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/sb-price-watch/internal/metrics"
)

// maxContentLen is Discord's limit for the content field of a message.
const maxContentLen = 2000

// DefaultTimeout bounds one webhook call when no client is supplied.
const DefaultTimeout = 10 * time.Second

// DiscordNotifier implements Notifier via a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	log        *slog.Logger
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithLogger sets the logger used for swallowed delivery errors.
func WithLogger(l *slog.Logger) DiscordOption {
	return func(d *DiscordNotifier) {
		d.log = l
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Content string `json:"content"`
}

// Send posts message to the webhook. Failures are logged and dropped.
func (d *DiscordNotifier) Send(ctx context.Context, message string) {
	if err := d.Post(ctx, message); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		d.log.Warn("discord notification failed", "error", err)
		return
	}
	metrics.NotificationsSentTotal.Inc()
}

// Post sends message to the webhook and reports the delivery error.
func (d *DiscordNotifier) Post(ctx context.Context, message string) error {
	ctx, span := otel.Tracer("sbwatch/notify").Start(ctx, "discord.post")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	if utf8.RuneCountInString(message) > maxContentLen {
		message = string([]rune(message)[:maxContentLen])
	}

	err := d.post(ctx, discordWebhookPayload{Content: message})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}

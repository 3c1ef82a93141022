// Package notify delivers best-effort text notifications. Delivery failures
// are logged and counted but never returned to the caller.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends a text message to an external sink.
type Notifier interface {
	Send(ctx context.Context, message string)
}

// New returns a DiscordNotifier when webhookURL is set and a NoOpNotifier
// otherwise.
func New(webhookURL string, log *slog.Logger, opts ...DiscordOption) Notifier {
	if webhookURL == "" {
		return NewNoOpNotifier(log)
	}
	return NewDiscordNotifier(webhookURL, append([]DiscordOption{WithLogger(log)}, opts...)...)
}

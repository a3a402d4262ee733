package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobalert/internal/model"
)

// HeartbeatMessage is the canned self-test message.
const HeartbeatMessage = "✅ jobalert self-test: notifications are working."

// Ensure Dispatcher implements model.Notifier.
var _ model.Notifier = (*Dispatcher)(nil)

// Dispatcher formats postings for its sender and delivers them as one batch.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
}

// NewDispatcher returns a notifier delivering through sender.
func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Channel returns the name of the selected channel.
func (d *Dispatcher) Channel() string { return d.sender.Name() }

// Notify sends all postings as a single message. An empty batch is a no-op.
func (d *Dispatcher) Notify(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	text := FormatBatch(postings, d.sender.MaxLen())
	d.logger.Debug("dispatching batch", "channel", d.sender.Name(), "postings", len(postings))
	return d.sender.Send(ctx, text)
}

// Heartbeat sends the self-test message through the selected channel.
func (d *Dispatcher) Heartbeat(ctx context.Context) error {
	d.logger.Info("sending heartbeat", "channel", d.sender.Name())
	return d.sender.Send(ctx, HeartbeatMessage)
}

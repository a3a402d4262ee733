package notifier

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/amishk599/jobalert/internal/config"
)

// Sender delivers one pre-formatted message over a single channel.
type Sender interface {
	Name() string
	MaxLen() int // message ceiling in characters, Unlimited for none
	Send(ctx context.Context, text string) error
}

// SelectSender picks the channel from cfg: Telegram when both its settings
// are present, else Twilio when all four of its settings are present, else
// the stdout sink.
func SelectSender(cfg config.NotifyConfig, client *http.Client, out io.Writer, logger *slog.Logger) Sender {
	switch {
	case cfg.TelegramReady():
		return NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, client, logger)
	case cfg.TwilioReady():
		return NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.TwilioTo, client, logger)
	default:
		return NewLogSender(out, logger)
	}
}

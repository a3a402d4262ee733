package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Ensure LogSender implements Sender.
var _ Sender = (*LogSender)(nil)

// LogSender is the fallback channel: it prints messages to out.
type LogSender struct {
	out    io.Writer
	logger *slog.Logger
}

// NewLogSender returns a sender that writes each message to out.
func NewLogSender(out io.Writer, logger *slog.Logger) *LogSender {
	return &LogSender{out: out, logger: logger}
}

func (s *LogSender) Name() string { return "stdout" }
func (s *LogSender) MaxLen() int  { return Unlimited }

// Send writes text followed by a newline. Write errors are logged, not
// returned: stdout delivery does not fail a run.
func (s *LogSender) Send(_ context.Context, text string) error {
	s.logger.Info("no notification channel configured, printing to stdout")
	if _, err := fmt.Fprintln(s.out, text); err != nil {
		s.logger.Warn("stdout write failed", "error", err)
	}
	return nil
}

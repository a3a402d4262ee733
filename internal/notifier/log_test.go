package notifier

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogSender_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(&buf, discardLogger())

	if err := s.Send(context.Background(), "1 new matching job(s)"); err != nil {
		t.Fatalf("Send = %v, want nil", err)
	}
	if got := buf.String(); got != "1 new matching job(s)\n" {
		t.Errorf("output = %q", got)
	}
	if s.MaxLen() != Unlimited {
		t.Errorf("MaxLen = %d, want unlimited", s.MaxLen())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestLogSender_NeverFails(t *testing.T) {
	s := NewLogSender(failingWriter{}, discardLogger())
	if err := s.Send(context.Background(), "text"); err != nil {
		t.Errorf("Send = %v, want nil", err)
	}
}

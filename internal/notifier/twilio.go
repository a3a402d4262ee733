package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/jobalert/internal/model"
	"github.com/amishk599/jobalert/internal/retry"
)

const (
	twilioAPIBase     = "https://api.twilio.com"
	twilioMaxAttempts = 4
	twilioBaseDelay   = 1 * time.Second
)

// Ensure TwilioSender implements Sender.
var _ Sender = (*TwilioSender)(nil)

// TwilioSender sends messages through the Twilio Messages API. Rate-limited
// responses are retried; every other failure is returned immediately.
type TwilioSender struct {
	sid     string
	token   string
	from    string
	to      string
	apiBase string
	client  *http.Client
	policy  retry.Policy
	logger  *slog.Logger
}

// NewTwilioSender returns a sender for the given account and numbers.
func NewTwilioSender(sid, token, from, to string, client *http.Client, logger *slog.Logger) *TwilioSender {
	return &TwilioSender{
		sid:     sid,
		token:   token,
		from:    from,
		to:      to,
		apiBase: twilioAPIBase,
		client:  client,
		policy: retry.Policy{
			MaxAttempts: twilioMaxAttempts,
			BaseDelay:   twilioBaseDelay,
			Logger:      logger.With("channel", "twilio"),
		},
		logger: logger,
	}
}

func (s *TwilioSender) Name() string { return "twilio" }
func (s *TwilioSender) MaxLen() int  { return TwilioMaxLen }

// Send posts text, retrying while the gateway answers 429.
func (s *TwilioSender) Send(ctx context.Context, text string) error {
	if err := s.policy.Do(ctx, func(ctx context.Context) error {
		return s.post(ctx, text)
	}); err != nil {
		return &model.DeliveryError{Channel: s.Name(), Err: err}
	}
	s.logger.Info("twilio message sent", "to", s.to, "chars", len([]rune(text)))
	return nil
}

func (s *TwilioSender) post(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", s.to)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiBase, url.PathEscape(s.sid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.sid, s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("twilio returned %d: %s", resp.StatusCode, readSnippet(resp.Body)),
		}
	}
	return nil
}

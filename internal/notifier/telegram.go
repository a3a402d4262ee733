package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/jobalert/internal/model"
)

const telegramAPIBase = "https://api.telegram.org"

// Ensure TelegramSender implements Sender.
var _ Sender = (*TelegramSender)(nil)

// TelegramSender posts messages to a chat through the Bot API.
type TelegramSender struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
	logger  *slog.Logger
}

// NewTelegramSender returns a sender for the given bot token and chat.
func NewTelegramSender(token, chatID string, client *http.Client, logger *slog.Logger) *TelegramSender {
	return &TelegramSender{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPIBase,
		client:  client,
		logger:  logger,
	}
}

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (s *TelegramSender) Name() string { return "telegram" }
func (s *TelegramSender) MaxLen() int  { return TelegramMaxLen }

// Send posts text once. Failures are not retried.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(telegramMessage{
		ChatID:                s.chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return s.deliveryError(fmt.Errorf("marshal telegram payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/bot"+s.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return s.deliveryError(fmt.Errorf("build telegram request: %w", redactURL(err)))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.deliveryError(fmt.Errorf("post to telegram: %w", redactURL(err)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.deliveryError(&model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("telegram returned %d: %s", resp.StatusCode, readSnippet(resp.Body)),
		})
	}

	s.logger.Info("telegram message sent", "chat_id", s.chatID, "chars", len([]rune(text)))
	return nil
}

func (s *TelegramSender) deliveryError(err error) error {
	return &model.DeliveryError{Channel: s.Name(), Err: err}
}

// redactURL strips the request URL from transport errors; it carries the bot token.
func redactURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}

// readSnippet returns the start of an error response body for diagnostics.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}

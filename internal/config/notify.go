package config

// NotifyConfig carries channel credentials read from the environment.
type NotifyConfig struct {
	TelegramBotToken string
	TelegramChatID   string
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	TwilioTo         string
}

// NotifyFromEnv builds a NotifyConfig using getenv, normally os.Getenv.
func NotifyFromEnv(getenv func(string) string) NotifyConfig {
	return NotifyConfig{
		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getenv("TELEGRAM_CHAT_ID"),
		TwilioSID:        getenv("TWILIO_SID"),
		TwilioToken:      getenv("TWILIO_TOKEN"),
		TwilioFrom:       getenv("TWILIO_FROM"),
		TwilioTo:         getenv("TWILIO_TO"),
	}
}

// TelegramReady reports whether both Telegram credentials are set.
func (n NotifyConfig) TelegramReady() bool {
	return n.TelegramBotToken != "" && n.TelegramChatID != ""
}

// TwilioReady reports whether all four Twilio settings are set.
func (n NotifyConfig) TwilioReady() bool {
	return n.TwilioSID != "" && n.TwilioToken != "" && n.TwilioFrom != "" && n.TwilioTo != ""
}

package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/pkg/httpclient"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// KeySendAlert flags a log entry for forwarding to the operator chat.
const KeySendAlert = "send_alert"

// AlertCore tees error-level entries carrying the alert flag to a Telegram
// chat, so storage and delivery failures reach an operator, not just the
// log stream.
type AlertCore struct {
	core     zapcore.Core
	minLevel zapcore.Level
	client   httpclient.HTTPClient
	chatID   string
}

// NewAlertLogger wraps an existing logger with an AlertCore. chatID empty
// disables forwarding.
func NewAlertLogger(base *Logger, botToken, chatID string, timeout time.Duration) *Logger {
	if chatID == "" {
		return base
	}
	client := httpclient.New(fmt.Sprintf("https://api.telegram.org/bot%s", botToken), timeout, "")
	wrapped := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &AlertCore{
			core:     core,
			minLevel: zapcore.ErrorLevel,
			client:   client,
			chatID:   chatID,
		}
	}))
	return &Logger{wrapped}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		minLevel: a.minLevel,
		client:   a.client,
		chatID:   a.chatID,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == KeySendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		go a.sendTelegramAlert(entry, fields) // async so logging never blocks
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) sendTelegramAlert(entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	fieldStr := ""
	for k, v := range enc.Fields {
		if k == KeySendAlert {
			continue
		}
		fieldStr += fmt.Sprintf("• %s: %v\n", k, v)
	}

	message := fmt.Sprintf(
		"🚨 *%s Alert*\n\n*Message:* %s\n\n*Fields:*\n%s\n*Time:* %s",
		entry.Level.CapitalString(),
		entry.Message,
		fieldStr,
		entry.Time.Format("2006-01-02 15:04:05"),
	)

	payload := map[string]interface{}{
		"chat_id":    a.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = a.client.Post(ctx, "/sendMessage", payload, nil, nil)
}

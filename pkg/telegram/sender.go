package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// ErrDeliveryFailure marks a failed Telegram send. Callers branch on it to
// decide whether an outcome may still be recorded.
var ErrDeliveryFailure = errors.New("telegram delivery failed")

type chatLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// ChannelSender is a rate-limited wrapper over telebot. A global limiter
// protects the bot-wide Telegram budget, a per-chat limiter protects each
// conversation.
type ChannelSender struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
	chatLimiters  map[int64]*chatLimiterEntry
	mu            sync.Mutex
}

func NewChannelSender(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *ChannelSender {
	return &ChannelSender{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		chatLimiters:  make(map[int64]*chatLimiterEntry),
	}
}

// SendMessage sends a text message to the configured channel.
func (t *ChannelSender) SendMessage(ctx context.Context, text string, opts ...interface{}) error {
	return t.SendTo(ctx, t.cfg.ChannelID, text, opts...)
}

// SendPhoto sends PNG bytes to the configured channel.
func (t *ChannelSender) SendPhoto(ctx context.Context, png []byte, caption string) error {
	if err := t.checkRateLimit(ctx, t.cfg.ChannelID); err != nil {
		return err
	}
	photo := &telebot.Photo{
		File:    telebot.FromReader(bytes.NewReader(png)),
		Caption: caption,
	}
	if _, err := t.bot.Send(telebot.ChatID(t.cfg.ChannelID), photo); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}
	return nil
}

// SendTo sends a text message to an arbitrary chat.
func (t *ChannelSender) SendTo(ctx context.Context, chatID int64, text string, opts ...interface{}) error {
	if err := t.checkRateLimit(ctx, chatID); err != nil {
		return err
	}
	if _, err := t.bot.Send(telebot.ChatID(chatID), text, opts...); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}
	return nil
}

// Reply answers the chat a command came from.
func (t *ChannelSender) Reply(ctx context.Context, c telebot.Context, text string, opts ...interface{}) error {
	if err := t.checkRateLimit(ctx, c.Chat().ID); err != nil {
		return err
	}
	if err := c.Send(text, opts...); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}
	return nil
}

func (t *ChannelSender) getChatLimiter(chatID int64) *chatLimiterEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limiter, exists := t.chatLimiters[chatID]; exists {
		limiter.lastAccess = time.Now()
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(t.cfg.MaxChatRequestPerSecond), t.cfg.MaxChatRequestPerSecond)
	t.chatLimiters[chatID] = &chatLimiterEntry{
		limiter:    limiter,
		lastAccess: time.Now(),
	}
	return t.chatLimiters[chatID]
}

func (t *ChannelSender) checkRateLimit(ctx context.Context, chatID int64) error {
	chatLimiter := t.getChatLimiter(chatID)

	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	if err := chatLimiter.limiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// StartCleanupExpired drops per-chat limiters idle for longer than the
// cleanup interval. Runs until ctx is cancelled.
func (t *ChannelSender) StartCleanupExpired(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Stopping Telegram rate limiter cleanup")
			return
		case <-ticker.C:
			t.mu.Lock()
			for chatID, entry := range t.chatLimiters {
				if time.Since(entry.lastAccess) > maxIdle {
					delete(t.chatLimiters, chatID)
				}
			}
			t.mu.Unlock()
		}
	}
}

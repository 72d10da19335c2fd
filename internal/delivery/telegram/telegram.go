package telegram

import (
	"context"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/internal/service"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/telegram"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/utils"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx     context.Context
	cfg     *config.Config
	bot     *telebot.Bot
	log     *logger.Logger
	sender  *telegram.ChannelSender
	echo    *echo.Echo
	service *service.Service
	repo    *repository.Repository
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	sender *telegram.ChannelSender,
	echo *echo.Echo,
	service *service.Service,
	repo *repository.Repository,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:     ctx,
		cfg:     cfg,
		log:     log,
		bot:     bot,
		sender:  sender,
		echo:    echo,
		service: service,
		repo:    repo,
	}
}

func (t *TelegramBotHandler) Start() {
	t.log.Info("Starting Telegram bot...")

	t.RegisterHandlers()

	if t.cfg.Telegram.WebhookURL != "" {
		t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
		if err := t.bot.SetWebhook(&telebot.Webhook{
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: t.cfg.Telegram.WebhookURL,
			},
		}); err != nil {
			t.log.Error("Failed to set webhook", logger.ErrorField(err))
		}
		return
	}

	utils.GoSafe(func() {
		t.bot.Start()
	})
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")

	ctx, cancel := context.WithTimeout(t.ctx, 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		t.bot.Stop()
		stopDone <- nil
	}()

	select {
	case <-stopDone:
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}

	t.log.Info("Telegram bot shutdown completed")
}

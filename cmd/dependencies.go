package cmd

import (
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/cache"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/db"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/telegram"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	db       *db.DB
	cfg      *config.Config
	log      *logger.Logger
	echo     *echo.Echo
	cache    cache.Cache
	sender   *telegram.ChannelSender
	bot      *telebot.Bot
	location *time.Location
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}
	log = logger.NewAlertLogger(log, cfg.Telegram.BotToken, cfg.Telegram.AlertChatID, cfg.Telegram.TimeoutDuration)

	database, err := db.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	pref := telebot.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.Error("Telegram bot error", zap.Error(err))
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Error("Failed to create telegram bot", zap.Error(err))
		return nil, err
	}

	location, err := utils.LoadLocation(cfg.Scheduler.TimeZone)
	if err != nil {
		log.Error("Failed to load scheduler time zone", zap.Error(err))
		return nil, err
	}

	return &AppDependency{
		cfg:      cfg,
		log:      log,
		db:       database,
		echo:     echo.New(),
		cache:    cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		sender:   telegram.NewChannelSender(&cfg.Telegram, log, bot),
		bot:      bot,
		location: location,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

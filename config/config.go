package config

import (
	"fmt"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	DB        Database       `mapstructure:"database"`
	API       API            `mapstructure:"api"`
	Scheduler Scheduler      `mapstructure:"scheduler"`
	Cache     Cache          `mapstructure:"cache"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Signal    SignalConfig   `mapstructure:"signal"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scheduler struct {
	StartupDelay   time.Duration `mapstructure:"startup_delay"`
	ArmDelay       time.Duration `mapstructure:"arm_delay"`
	SummaryWeekday int           `mapstructure:"summary_weekday"`
	SummaryHour    int           `mapstructure:"summary_hour"`
	SummaryMinute  int           `mapstructure:"summary_minute"`
	TimeZone       string        `mapstructure:"time_zone"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token" validate:"required"`
	ChannelID                 int64         `mapstructure:"channel_id" validate:"required"`
	AlertChatID               string        `mapstructure:"alert_chat_id"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxChatRequestPerSecond   int           `mapstructure:"max_chat_request_per_second"`
}

// SignalConfig carries the demo setup and price levels fed to every
// evaluation. The bot does not read live market data; levels are
// operator-supplied.
type SignalConfig struct {
	Asset         string   `mapstructure:"asset"`
	Entry         string   `mapstructure:"entry"`
	TakeProfits   []string `mapstructure:"take_profits"`
	StopLoss      string   `mapstructure:"stop_loss"`
	MinScore      int      `mapstructure:"min_score"`
	HistoryLimit  int      `mapstructure:"history_limit"`
	DemoRSI       float64  `mapstructure:"demo_rsi"`
	DemoVolume    float64  `mapstructure:"demo_volume"`
	DemoAvgVolume float64  `mapstructure:"demo_avg_volume"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "sentinel.db")
	viper.SetDefault("database.log_level", "Warn")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("scheduler.startup_delay", 5*time.Second)
	viper.SetDefault("scheduler.arm_delay", 5*time.Second)
	viper.SetDefault("scheduler.summary_weekday", 0) // Sunday
	viper.SetDefault("scheduler.summary_hour", 22)
	viper.SetDefault("scheduler.summary_minute", 0)
	viper.SetDefault("scheduler.time_zone", "Local")

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)

	// Registered with empty defaults so AutomaticEnv can bind them;
	// validation still rejects the zero values.
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.channel_id", 0)
	viper.SetDefault("telegram.alert_chat_id", "")
	viper.SetDefault("telegram.webhook_url", "")
	viper.SetDefault("telegram.timeout_duration", 30*time.Second)
	viper.SetDefault("telegram.max_global_request_per_second", 30)
	viper.SetDefault("telegram.max_chat_request_per_second", 1)

	viper.SetDefault("signal.asset", "BTCUSDT")
	viper.SetDefault("signal.entry", "67.100")
	viper.SetDefault("signal.take_profits", []string{"68.200", "69.000"})
	viper.SetDefault("signal.stop_loss", "66.400")
	viper.SetDefault("signal.min_score", 4)
	viper.SetDefault("signal.history_limit", 10)
	viper.SetDefault("signal.demo_rsi", 25)
	viper.SetDefault("signal.demo_volume", 1500)
	viper.SetDefault("signal.demo_avg_volume", 1000)
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := goValidator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("missing required configuration: %w", err)
	}

	return &cfg, nil
}

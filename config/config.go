package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	API        API            `mapstructure:"api"`
	Gemini     Gemini         `mapstructure:"gemini"`
	Historical Historical     `mapstructure:"historical"`
	Cache      Cache          `mapstructure:"cache"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
	Client     Client         `mapstructure:"client"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port              int           `mapstructure:"port"`
	MaxBodySize       string        `mapstructure:"max_body_size"`
	RateLimitPerSec   float64       `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst    int           `mapstructure:"rate_limit_burst"`
	RateLimitExpireIn time.Duration `mapstructure:"rate_limit_expire_in"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	EstimateModel       string        `mapstructure:"estimate_model"`
	ChatModel           string        `mapstructure:"chat_model"`
	Temperature         float32       `mapstructure:"temperature"`
	Timeout             time.Duration `mapstructure:"timeout"`
	EnableSearch        bool          `mapstructure:"enable_search"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	MaxImages           int           `mapstructure:"max_images"`
}

// Historical lists the static reference sources loaded at start up.
type Historical struct {
	Dir     string             `mapstructure:"dir"`
	Sources []HistoricalSource `mapstructure:"sources"`
}

// HistoricalSource describes one delimited file and how its headers map onto
// the record fields. Columns keys: year, make, model, boat_type, engine_hp,
// trade_in_value.
type HistoricalSource struct {
	File            string            `mapstructure:"file"`
	DefaultBoatType string            `mapstructure:"default_boat_type"`
	Columns         map[string]string `mapstructure:"columns"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string `mapstructure:"bot_token"`
	ChatID                    int64  `mapstructure:"chat_id"`
	MaxGlobalRequestPerSecond int    `mapstructure:"max_global_request_per_second"`
}

type Client struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultHistoricalSources returns the two dealership reference files.
func DefaultHistoricalSources() []HistoricalSource {
	return []HistoricalSource{
		{
			File:            "trade-in-data.csv",
			DefaultBoatType: "Fishing",
			Columns: map[string]string{
				"year":           "Year",
				"make":           "Make",
				"model":          "Model",
				"boat_type":      "BoatType",
				"engine_hp":      "EngineHP",
				"trade_in_value": "TradeInValueCAD",
			},
		},
		{
			File:            "more-trade-in-data.csv",
			DefaultBoatType: "Unknown",
			Columns: map[string]string{
				"year":           "Boat Year",
				"make":           "Make",
				"model":          "Model",
				"engine_hp":      "Engine HP",
				"trade_in_value": "Trade in Value",
			},
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.max_body_size", "20M")
	v.SetDefault("api.rate_limit_per_sec", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("api.rate_limit_expire_in", 3*time.Minute)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.estimate_model", "gemini-2.5-flash")
	v.SetDefault("gemini.chat_model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.timeout", 90*time.Second)
	v.SetDefault("gemini.enable_search", true)
	v.SetDefault("gemini.max_request_per_minute", 60)
	v.SetDefault("gemini.max_token_per_minute", 1000000)
	v.SetDefault("gemini.max_images", 3)

	v.SetDefault("historical.dir", "public")

	v.SetDefault("cache.default_expiration", 24*time.Hour)
	v.SetDefault("cache.cleanup_interval", 30*time.Minute)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.max_global_request_per_second", 1)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 2*time.Minute)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.Historical.Sources) == 0 {
		cfg.Historical.Sources = DefaultHistoricalSources()
	}

	return &cfg, nil
}

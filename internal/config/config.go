package config

import (
	"errors"
	"strings"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Price     PriceConfig     `mapstructure:"price"`
	Limiter   LimiterConfig   `mapstructure:"limiter"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Position  PositionConfig  `mapstructure:"position"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	API       APIConfig       `mapstructure:"api"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type PriceConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	CoinID     string `mapstructure:"coin_id"`     // e.g. ethereum
	VsCurrency string `mapstructure:"vs_currency"` // e.g. usd
	TimeoutMs  int    `mapstructure:"timeout_ms"`
}

type LimiterConfig struct {
	MaxCalls int `mapstructure:"max_calls"`
	WindowMs int `mapstructure:"window_ms"`
}

type ScheduleConfig struct {
	IntervalSeconds    int  `mapstructure:"interval_seconds"`
	MinIntervalSeconds int  `mapstructure:"min_interval_seconds"`
	AutoStart          bool `mapstructure:"auto_start"`
}

type PositionConfig struct {
	Size              float64 `mapstructure:"size"`
	EntryPrice        float64 `mapstructure:"entry_price"`
	Collateral        float64 `mapstructure:"collateral"`
	MaintenanceMargin float64 `mapstructure:"maintenance_margin"` // 0.10 = 10%
}

type DashboardConfig struct {
	RefreshOnStart bool `mapstructure:"refresh_on_start"`
}

type APIConfig struct {
	RateQPS   float64 `mapstructure:"rate_qps"`
	RateBurst int     `mapstructure:"rate_burst"`
}

func (c PriceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c LimiterConfig) Window() time.Duration {
	return time.Duration(c.WindowMs) * time.Millisecond
}

func (c ScheduleConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c ScheduleConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("price.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("price.coin_id", "ethereum")
	v.SetDefault("price.vs_currency", "usd")
	v.SetDefault("price.timeout_ms", 10000)
	// Conservative limit for the CoinGecko free tier
	v.SetDefault("limiter.max_calls", 45)
	v.SetDefault("limiter.window_ms", 60000)
	v.SetDefault("schedule.interval_seconds", 30)
	v.SetDefault("schedule.min_interval_seconds", 30)
	v.SetDefault("schedule.auto_start", false)
	v.SetDefault("position.size", 0.0)
	v.SetDefault("position.entry_price", 0.0)
	v.SetDefault("position.collateral", 0.0)
	v.SetDefault("position.maintenance_margin", 0.10)
	v.SetDefault("dashboard.refresh_on_start", true)
	v.SetDefault("api.rate_qps", 5.0)
	v.SetDefault("api.rate_burst", 10)
}

// Load reads config.yaml from the working directory or ./configs (or the explicit
// file when path is set), then applies LIQWATCH_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// e.g. LIQWATCH_LIMITER_MAX_CALLS
	v.SetEnvPrefix("liqwatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Limiter.MaxCalls <= 0:
		return errors.New("limiter.max_calls must be positive")
	case c.Limiter.WindowMs <= 0:
		return errors.New("limiter.window_ms must be positive")
	case c.Schedule.MinIntervalSeconds <= 0:
		return errors.New("schedule.min_interval_seconds must be positive")
	case c.Position.MaintenanceMargin <= 0 || c.Position.MaintenanceMargin >= 1:
		return errors.New("position.maintenance_margin must be in (0, 1)")
	case strings.TrimSpace(c.Price.BaseURL) == "":
		return errors.New("price.base_url is required")
	}
	return nil
}

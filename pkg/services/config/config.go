package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "ECFR"

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Poll      PollConfig      `mapstructure:"poll"`
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	List      ListConfig      `mapstructure:"list"`
	Log       LogConfig       `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// MaxWait of zero polls until cancelled.
	MaxWait time.Duration `mapstructure:"max_wait"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DashboardConfig struct {
	TopN        int `mapstructure:"top_n"`
	DetailTopN  int `mapstructure:"detail_top_n"`
	SectionTopN int `mapstructure:"section_top_n"`
	LabelLimit  int `mapstructure:"label_limit"`
}

type ListConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080/ecfr-analyzer")
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("poll.interval", 5*time.Second)
	v.SetDefault("poll.max_wait", time.Duration(0))
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("dashboard.top_n", 10)
	v.SetDefault("dashboard.detail_top_n", 10)
	v.SetDefault("dashboard.section_top_n", 15)
	v.SetDefault("dashboard.label_limit", 25)
	v.SetDefault("list.page_size", 10)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads defaults, the optional file at path and ECFR_* environment
// variables, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Poll.MaxWait < 0 {
		return fmt.Errorf("poll.max_wait must not be negative, got %s", c.Poll.MaxWait)
	}
	if c.Dashboard.TopN <= 0 || c.Dashboard.DetailTopN <= 0 || c.Dashboard.SectionTopN <= 0 {
		return fmt.Errorf("dashboard top_n values must be positive")
	}
	if c.List.PageSize <= 0 {
		return fmt.Errorf("list.page_size must be positive, got %d", c.List.PageSize)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// Logger builds the root logger for the configured level. Nil writes to
// stderr.
func (c LogConfig) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

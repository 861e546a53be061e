// Package config loads landmark-cli configuration and initializes the
// global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	InputPath      string          `yaml:"input_path" mapstructure:"input_path"`
	JSONOutputPath string          `yaml:"json_output_path" mapstructure:"json_output_path"`
	CSVOutputPath  string          `yaml:"csv_output_path" mapstructure:"csv_output_path"`
	Nominatim      NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Resolver       ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Log            LogConfig       `yaml:"log" mapstructure:"log"`
}

// NominatimConfig holds geocoding provider settings.
type NominatimConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Limit     int    `yaml:"limit" mapstructure:"limit"`
}

// ResolverConfig controls query composition, request pacing, and retries.
type ResolverConfig struct {
	Region              string  `yaml:"region" mapstructure:"region"`
	RetryAttempts       int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryDelaySecs      float64 `yaml:"retry_delay_secs" mapstructure:"retry_delay_secs"`
	RequestIntervalSecs float64 `yaml:"request_interval_secs" mapstructure:"request_interval_secs"`
	TimeoutSecs         float64 `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RetryDelay returns the fixed inter-attempt delay as a duration.
func (r ResolverConfig) RetryDelay() time.Duration {
	return time.Duration(r.RetryDelaySecs * float64(time.Second))
}

// RequestInterval returns the paced-gate interval as a duration.
func (r ResolverConfig) RequestInterval() time.Duration {
	return time.Duration(r.RequestIntervalSecs * float64(time.Second))
}

// Timeout returns the per-request HTTP timeout as a duration.
func (r ResolverConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs * float64(time.Second))
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LANDMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_path", "in.txt")
	v.SetDefault("json_output_path", "landmarks_with_coords.json")
	v.SetDefault("csv_output_path", "landmarks_coords.csv")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "BeaconLandmarkGeocoder/1.0")
	v.SetDefault("nominatim.limit", 1)
	v.SetDefault("resolver.region", "California, USA")
	v.SetDefault("resolver.retry_attempts", 3)
	v.SetDefault("resolver.retry_delay_secs", 2.0)
	v.SetDefault("resolver.request_interval_secs", 1.1)
	v.SetDefault("resolver.timeout_secs", 10.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. It is
// called before any network activity.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return eris.New("config: input_path is required")
	}
	if c.JSONOutputPath == "" {
		return eris.New("config: json_output_path is required")
	}
	if c.CSVOutputPath == "" {
		return eris.New("config: csv_output_path is required")
	}
	if c.Nominatim.UserAgent == "" {
		return eris.New("config: nominatim.user_agent is required by the provider usage policy")
	}
	if c.Nominatim.Limit < 1 {
		return eris.New("config: nominatim.limit must be at least 1")
	}
	if c.Resolver.RetryAttempts < 1 {
		return eris.New("config: resolver.retry_attempts must be at least 1")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

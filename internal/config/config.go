package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"offline-geocoder/internal/geocoder"
	"offline-geocoder/internal/geolonia"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file, environment variables or command-line flags.
type Config struct {
	DataFile      string  `mapstructure:"DATA_FILE"`
	MaxAccuracy   float32 `mapstructure:"MAX_ACCURACY"`
	MaxDistance   float32 `mapstructure:"MAX_DISTANCE"`
	Workers       int     `mapstructure:"WORKERS"`
	SkipInvalid   bool    `mapstructure:"SKIP_INVALID"`
	ServerAddress string  `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string  `mapstructure:"LOG_LEVEL"`
	LogFormat     string  `mapstructure:"LOG_FORMAT"` // console, json
}

var defaults = map[string]any{
	"DATA_FILE":      "./latest.csv",
	"MAX_ACCURACY":   100,
	"MAX_DISTANCE":   1000,
	"WORKERS":        0,
	"SKIP_INVALID":   false,
	"SERVER_ADDRESS": ":8080",
	"LOG_LEVEL":      "info",
	"LOG_FORMAT":     "console",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data":         "DATA_FILE",
	"max-accuracy": "MAX_ACCURACY",
	"max-distance": "MAX_DISTANCE",
	"workers":      "WORKERS",
	"skip-invalid": "SKIP_INVALID",
	"addr":         "SERVER_ADDRESS",
	"log-level":    "LOG_LEVEL",
	"log-format":   "LOG_FORMAT",
}

// LoadConfig reads configuration from app.env in path and from the
// environment. Flags in flags that were set on the command line take
// precedence; flags may be nil. A missing config file is not an error.
func LoadConfig(path string, flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err = v.BindPFlag(key, flag); err != nil {
					return config, fmt.Errorf("config: failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if config.MaxAccuracy < 0 || config.MaxDistance < 0 {
		return config, errors.New("config: MAX_ACCURACY and MAX_DISTANCE must not be negative")
	}

	return config, nil
}

// RegisterFlags adds the flags understood by LoadConfig to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", ".", "directory containing app.env")
	flags.String("data", "", "path to the Geolonia address CSV")
	flags.Float32("max-accuracy", 0, "cap on the accuracy of a query, in meters")
	flags.Float32("max-distance", 0, "search radius in meters")
	flags.Int("workers", 0, "goroutines per query (0 = GOMAXPROCS)")
	flags.Bool("skip-invalid", false, "skip malformed lines instead of aborting the load")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
}

// Geocoder returns the search configuration.
func (c Config) Geocoder() geocoder.Config {
	return geocoder.Config{
		MaxAccuracy: c.MaxAccuracy,
		MaxDistance: c.MaxDistance,
		Workers:     c.Workers,
	}
}

// LoadOptions returns the dataset load policy.
func (c Config) LoadOptions() geolonia.LoadOptions {
	return geolonia.LoadOptions{SkipInvalid: c.SkipInvalid}
}

// NewLogger creates a zerolog.Logger writing to stderr.
func (c Config) NewLogger() zerolog.Logger {
	return c.newLogger(os.Stderr)
}

func (c Config) newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(c.LogFormat) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8000/api"
	DefaultTimeout     = 12 * time.Second
	DefaultMaxAttempts = 3
	DefaultSearchDelay = 300 * time.Millisecond
)

// Config holds runtime settings.
type Config struct {
	APIURL      string
	Timeout     time.Duration
	MaxAttempts int
	LogLevel    slog.Level
	LogFile     string
	Strict      bool
	SearchDelay time.Duration
}

func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
		LogLevel:    slog.LevelInfo,
		SearchDelay: DefaultSearchDelay,
	}
}

// Load reads the environment after loading envFile (".env" when empty). A
// missing env file is not an error; variables already set win over it.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv reads the BIOSKOP_* variables over the defaults.
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	if v := env("BIOSKOP_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := env("BIOSKOP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("BIOSKOP_TIMEOUT: invalid duration %q", v))
		} else {
			cfg.Timeout = d
		}
	}
	if v := env("BIOSKOP_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("BIOSKOP_MAX_ATTEMPTS: must be a positive number, got %q", v))
		} else {
			cfg.MaxAttempts = n
		}
	}
	if v := env("BIOSKOP_LOG_LEVEL"); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BIOSKOP_LOG_LEVEL: %w", err))
		} else {
			cfg.LogLevel = level
		}
	}
	cfg.LogFile = env("BIOSKOP_LOG_FILE")
	if v := env("BIOSKOP_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BIOSKOP_STRICT: invalid boolean %q", v))
		} else {
			cfg.Strict = b
		}
	}
	if v := env("BIOSKOP_SEARCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("BIOSKOP_SEARCH_DELAY: invalid duration %q", v))
		} else {
			cfg.SearchDelay = d
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
	return level, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Package config loads process configuration for the cipherform binaries
// from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by Load.
const (
	EnvBaseURL  = "CIPHERFORM_URL"
	EnvTimeout  = "CIPHERFORM_TIMEOUT"
	EnvOTPFill  = "CIPHERFORM_OTP_FILL"
	EnvListen   = "CIPHERFORM_LISTEN"
	EnvLogLevel = "CIPHERFORM_LOG_LEVEL"
)

// Defaults applied when a variable is unset.
const (
	DefaultBaseURL  = "http://localhost:5000"
	DefaultTimeout  = 30 * time.Second
	DefaultOTPFill  = '0'
	DefaultListen   = ":8080"
	DefaultLogLevel = "info"
)

// ErrInvalidConfig is returned when a variable cannot be parsed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all process configuration.
type Config struct {
	Backend BackendConfig
	Server  ServerConfig
	Log     LogConfig
}

// BackendConfig describes the cipher backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
	// OTPFill pads OTP keys shorter than their message.
	OTPFill rune
}

// ServerConfig holds gateway configuration.
type ServerConfig struct {
	Listen string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level string
}

// Load reads .env files (missing files are ignored) and then the
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: getEnv(EnvBaseURL, DefaultBaseURL),
			Timeout: DefaultTimeout,
			OTPFill: DefaultOTPFill,
		},
		Server: ServerConfig{
			Listen: getEnv(EnvListen, DefaultListen),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		},
	}

	if v, ok := os.LookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s=%q is not a positive duration", ErrInvalidConfig, EnvTimeout, v)
		}
		cfg.Backend.Timeout = d
	}

	if v, ok := os.LookupEnv(EnvOTPFill); ok {
		r, err := parseFill(v)
		if err != nil {
			return nil, err
		}
		cfg.Backend.OTPFill = r
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvLogLevel, cfg.Log.Level)
	}

	return cfg, nil
}

// parseFill accepts exactly one character. An empty value is rejected
// rather than treated as "no padding".
func parseFill(v string) (rune, error) {
	if utf8.RuneCountInString(v) != 1 {
		return 0, fmt.Errorf("%w: %s must be exactly one character, got %q", ErrInvalidConfig, EnvOTPFill, v)
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r, nil
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

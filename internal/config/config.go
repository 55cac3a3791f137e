// Package config loads runtime settings from an optional config file, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Each key is also read from the environment variable of the
// same name in upper case, e.g. GEMINI_API_KEY.
const (
	KeyAPIKey                = "gemini_api_key"
	KeyModel                 = "cover_letter_model"
	KeyPort                  = "port"
	KeyGenerationTimeout     = "generation_timeout"
	KeyGenerationMaxAttempts = "generation_max_attempts"
	KeyUseBrowser            = "use_browser"
	KeyVerbose               = "verbose"

	KeyRateLimitEnabled        = "rate_limit_enabled"
	KeyRateLimitDefaultLimit   = "rate_limit_default_limit"
	KeyRateLimitDefaultWindow  = "rate_limit_default_window"
	KeyRateLimitGenerateLimit  = "rate_limit_generate_limit"
	KeyRateLimitGenerateWindow = "rate_limit_generate_window"
	KeyRateLimitWhitelist      = "rate_limit_whitelist"
)

// DefaultModel is the Gemini model used for generation.
const DefaultModel = "gemini-2.5-flash"

// DefaultPort is the HTTP port of the form server.
const DefaultPort = 8080

// ErrMissingAPIKey is returned by RequireAPIKey when no key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// RateLimit configures the server's per-client rate limiter.
type RateLimit struct {
	Enabled        bool
	DefaultLimit   int
	DefaultWindow  time.Duration
	GenerateLimit  int
	GenerateWindow time.Duration
	Whitelist      []string
}

// Config is the merged runtime configuration.
type Config struct {
	APIKey string
	Model  string
	Port   int

	// GenerationTimeout bounds one model call; zero means no limit.
	GenerationTimeout time.Duration
	// GenerationMaxAttempts is the number of tries per generation; values
	// below one mean a single attempt.
	GenerationMaxAttempts int

	UseBrowser bool
	Verbose    bool

	RateLimit RateLimit
}

// Loader merges the configuration sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment lookup set up.
func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyGenerationTimeout, time.Duration(0))
	v.SetDefault(KeyGenerationMaxAttempts, 1)
	v.SetDefault(KeyUseBrowser, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyRateLimitEnabled, true)
	v.SetDefault(KeyRateLimitDefaultLimit, 600)
	v.SetDefault(KeyRateLimitDefaultWindow, time.Minute)
	v.SetDefault(KeyRateLimitGenerateLimit, 30)
	v.SetDefault(KeyRateLimitGenerateWindow, time.Hour)
	v.SetDefault(KeyRateLimitWhitelist, "")
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag makes a command line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config error: no flag to bind to %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads configFile (when non-empty) and returns the merged settings.
// The file format follows its extension (yaml, json, toml, env).
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		APIKey:                strings.TrimSpace(l.v.GetString(KeyAPIKey)),
		Model:                 strings.TrimSpace(l.v.GetString(KeyModel)),
		Port:                  l.v.GetInt(KeyPort),
		GenerationTimeout:     l.v.GetDuration(KeyGenerationTimeout),
		GenerationMaxAttempts: l.v.GetInt(KeyGenerationMaxAttempts),
		UseBrowser:            l.v.GetBool(KeyUseBrowser),
		Verbose:               l.v.GetBool(KeyVerbose),
		RateLimit: RateLimit{
			Enabled:        l.v.GetBool(KeyRateLimitEnabled),
			DefaultLimit:   l.v.GetInt(KeyRateLimitDefaultLimit),
			DefaultWindow:  l.v.GetDuration(KeyRateLimitDefaultWindow),
			GenerateLimit:  l.v.GetInt(KeyRateLimitGenerateLimit),
			GenerateWindow: l.v.GetDuration(KeyRateLimitGenerateWindow),
			Whitelist:      splitList(l.v.GetString(KeyRateLimitWhitelist)),
		},
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values. The API key is
// checked separately because only generation needs it.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config error: '%s' must not be empty", KeyModel)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: '%s' must be between 1 and 65535, got %d", KeyPort, c.Port)
	}
	if c.GenerationTimeout < 0 {
		return fmt.Errorf("config error: '%s' must be non-negative", KeyGenerationTimeout)
	}
	if c.GenerationMaxAttempts < 0 {
		return fmt.Errorf("config error: '%s' must be non-negative", KeyGenerationMaxAttempts)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 0 || c.RateLimit.GenerateLimit < 0 {
			return fmt.Errorf("config error: rate limits must be non-negative")
		}
		if c.RateLimit.DefaultWindow <= 0 || c.RateLimit.GenerateWindow <= 0 {
			return fmt.Errorf("config error: rate limit windows must be positive")
		}
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

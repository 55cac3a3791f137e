package ratelimit

import (
	"net/http"
	"time"

	"github.com/jonathan/cover-letter/internal/config"
)

// EndpointConfig is the limit for one route. A Path ending in "/" matches
// every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per window
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// FromSettings builds the limiter configuration from runtime settings.
func FromSettings(s config.RateLimit) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	whitelist := make(map[string]bool, len(s.Whitelist))
	for _, ip := range s.Whitelist {
		whitelist[ip] = true
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       whitelist,
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(s.GenerateLimit, s.GenerateWindow),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Generation calls a
// paid API and gets its own limit; job page fetches and uploads get
// moderate ones. Everything else uses the default limit.
func DefaultEndpointConfigs(generateLimit int, generateWindow time.Duration) []EndpointConfig {
	generateBurst := min(generateLimit, 3)
	return []EndpointConfig{
		{Path: "/api/generate", Method: http.MethodPost, Limit: generateLimit, Window: generateWindow, Burst: generateBurst},
		{Path: "/api/generate/stream", Method: http.MethodPost, Limit: generateLimit, Window: generateWindow, Burst: generateBurst},
		{Path: "/api/job-description", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/api/cv", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/export/", Method: http.MethodGet, Limit: 120, Window: time.Minute, Burst: 20},
	}
}

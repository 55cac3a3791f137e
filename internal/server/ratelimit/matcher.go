package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited routes: the health check and the page itself.
var unlimited = map[string]bool{
	"/health": true,
	"/":       true,
}

// MatchEndpoint returns the configuration for a request, or nil to use the
// default limit. Exact paths win over prefix rules.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && unlimited[path] {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

package middleware

import "strings"

// routePolicy describes how responses on one route may be cached, both in the
// shared response cache and by clients.
type routePolicy struct {
	path   string
	prefix bool
	// serverTTL is the response cache lifetime in seconds; 0 disables it.
	serverTTL    int
	cacheControl string
}

// First match wins, so exact paths go before the prefixes that cover them.
// Session-bound search routes are never stored.
var routePolicies = []routePolicy{
	{path: "/api/search/trending", serverTTL: 1800, cacheControl: "public, max-age=1800"},
	{path: "/api/search/suggestions", serverTTL: 180, cacheControl: "public, max-age=180, must-revalidate"},
	{path: "/api/products/", prefix: true, serverTTL: 600, cacheControl: "public, max-age=600, must-revalidate"},
	{path: "/api/search", prefix: true, cacheControl: "private, no-store"},
}

const defaultCacheControl = "private, no-cache, must-revalidate"

func policyFor(path string) (routePolicy, bool) {
	for _, p := range routePolicies {
		if path == p.path || (p.prefix && strings.HasPrefix(path, p.path)) {
			return p, true
		}
	}
	return routePolicy{}, false
}

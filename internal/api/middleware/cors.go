package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/zatekoja/zoramarket/internal/api/handlers"
)

var (
	corsAllowedHeaders = strings.Join([]string{"Content-Type", "Authorization", handlers.HeaderSessionID, handlers.HeaderUserID}, ", ")
	corsExposedHeaders = strings.Join([]string{handlers.HeaderSessionID, "X-Cache", "ETag"}, ", ")
)

// corsOrigins reads ALLOWED_ORIGINS (comma separated). nil means any origin.
func corsOrigins() map[string]struct{} {
	raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if raw == "" || raw == "*" {
		return nil
	}
	origins := make(map[string]struct{})
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins[origin] = struct{}{}
		}
	}
	return origins
}

// CORSMiddleware lets the storefront read search responses and the session
// header across origins. Preflight requests are answered here.
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := corsOrigins()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if allowed == nil {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		w.Header().Set("Access-Control-Expose-Headers", corsExposedHeaders)

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package routes

import (
	"net/http"

	"github.com/zatekoja/zoramarket/internal/api/handlers"
	"github.com/zatekoja/zoramarket/internal/api/middleware"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler  *handlers.SearchHandler
	productHandler *handlers.ProductHandler
	healthHandler  *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	productHandler *handlers.ProductHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		searchHandler:   searchHandler,
		productHandler:  productHandler,
		healthHandler:   healthHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Search endpoints
	r.mux.HandleFunc("POST /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/search/suggestions", r.searchHandler.Suggestions)
	r.mux.HandleFunc("GET /api/search/trending", r.searchHandler.Trending)

	// Session history and saved searches
	r.mux.HandleFunc("GET /api/search/history", r.searchHandler.GetHistory)
	r.mux.HandleFunc("POST /api/search/history", r.searchHandler.AddHistory)
	r.mux.HandleFunc("DELETE /api/search/history", r.searchHandler.ClearHistory)
	r.mux.HandleFunc("DELETE /api/search/history/{id}", r.searchHandler.DeleteHistoryEntry)
	r.mux.HandleFunc("GET /api/search/saved", r.searchHandler.GetSaved)
	r.mux.HandleFunc("DELETE /api/search/saved", r.searchHandler.ClearSaved)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/search/analytics/zero-results", r.searchHandler.GetZeroResultQueries)

	// Product endpoints
	r.mux.HandleFunc("GET /api/products/featured", r.productHandler.GetFeatured)
	r.mux.HandleFunc("GET /api/products/{id}", r.productHandler.GetProduct)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}

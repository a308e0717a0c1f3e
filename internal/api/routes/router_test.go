package routes_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/adapters/cache"
	"github.com/zatekoja/zoramarket/internal/adapters/catalog"
	"github.com/zatekoja/zoramarket/internal/api/handlers"
	"github.com/zatekoja/zoramarket/internal/api/middleware"
	"github.com/zatekoja/zoramarket/internal/api/routes"
	"github.com/zatekoja/zoramarket/internal/application/services"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	mock, err := catalog.NewMockCatalog()
	require.NoError(t, err)
	lru, err := cache.NewLRUAdapter(128)
	require.NoError(t, err)

	cached := catalog.NewCachedCatalog(mock, lru, 60, nil)
	engine := services.NewAdvancedSearchService(cached)
	sessions := handlers.NewSessionManager(cache.NewSessionStore(lru, 3600), engine)

	router := routes.NewRouter(
		handlers.NewSearchHandler(sessions, services.NewSearchAnalyticsService(nil)),
		handlers.NewProductHandler(cached, mock, services.NewProductRankingService()),
		handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"cache": func(ctx context.Context) error { return nil },
		}),
		middleware.NewCacheMiddleware(lru, nil),
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_SearchFlow(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"query": "jollof rice"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	req.Header.Set("Origin", "https://app.zora.market")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
	sessionID := rec.Header().Get(handlers.HeaderSessionID)
	require.NotEmpty(t, sessionID)

	var resp struct {
		Results []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "prod-jollof-kit", resp.Results[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/search/history", nil)
	req.Header.Set(handlers.HeaderSessionID, sessionID)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestRouter_FeaturedIsCachedAndCompressed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/featured?limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	req := httptest.NewRequest(http.MethodGet, "/api/products/featured?limit=3", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), `"count":3`)
}

func TestRouter_HealthAndPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/search", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-ID")
}

func TestRouter_ProductByID(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/prod-teff-flour", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ivory Teff Flour")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

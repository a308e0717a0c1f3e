package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/zoramarket/internal/api/handlers"
	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

func newSearchHandler(t *testing.T) *handlers.SearchHandler {
	t.Helper()
	return handlers.NewSearchHandler(newSessionManager(t), services.NewSearchAnalyticsService(nil))
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if sessionID != "" {
		req.Header.Set(handlers.HeaderSessionID, sessionID)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSearch_BlankQuery(t *testing.T) {
	h := newSearchHandler(t)

	rec := doJSON(t, h.Search, http.MethodPost, "/api/search", "", handlers.SearchRequest{Query: "  "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_InvalidBody(t *testing.T) {
	h := newSearchHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_InvalidFilters(t *testing.T) {
	h := newSearchHandler(t)
	lo, hi := 50.0, 10.0

	rec := doJSON(t, h.Search, http.MethodPost, "/api/search", "", handlers.SearchRequest{
		Query:   "jollof",
		Filters: &entities.ProductFilters{MinPrice: &lo, MaxPrice: &hi},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_price must not exceed max_price")
}

func TestSearch_ReturnsResultsAndEchoesSession(t *testing.T) {
	h := newSearchHandler(t)

	rec := doJSON(t, h.Search, http.MethodPost, "/api/search", "", handlers.SearchRequest{Query: "jollof rice"})
	require.Equal(t, http.StatusOK, rec.Code)

	sessionID := rec.Header().Get(handlers.HeaderSessionID)
	assert.NotEmpty(t, sessionID)

	var resp entities.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "p1", resp.Results[0].ID)
	assert.False(t, resp.Degraded)

	// the session is persisted between requests
	rec = doJSON(t, h.GetHistory, http.MethodGet, "/api/search/history", sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, rec.Header().Get(handlers.HeaderSessionID))

	var history struct {
		History []entities.SearchHistoryEntry `json:"history"`
		Count   int                           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)
	assert.Equal(t, "jollof rice", history.History[0].Query)

	rec = doJSON(t, h.GetSaved, http.MethodGet, "/api/search/saved", sessionID, nil)
	assert.Contains(t, rec.Body.String(), `"jollof rice"`)
}

func TestSuggestionsAndTrending(t *testing.T) {
	h := newSearchHandler(t)

	rec := doJSON(t, h.Suggestions, http.MethodGet, "/api/search/suggestions?q=jollof", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var suggestions struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestions))
	assert.Equal(t, []string{"Jollof Rice Kit", "Did you mean: jollof rice?"}, suggestions.Suggestions)

	rec = doJSON(t, h.Suggestions, http.MethodGet, "/api/search/suggestions?q=j", "", nil)
	assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())

	rec = doJSON(t, h.Trending, http.MethodGet, "/api/search/trending", "", nil)
	var trending struct {
		Trending []string `json:"trending"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trending))
	assert.Len(t, trending.Trending, 7)
}

func TestHistoryLifecycle(t *testing.T) {
	h := newSearchHandler(t)
	const sid = "session-1"

	rec := doJSON(t, h.AddHistory, http.MethodPost, "/api/search/history", sid, handlers.SaveSearchRequest{Query: "egusi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h.AddHistory, http.MethodPost, "/api/search/history", sid, handlers.SaveSearchRequest{Query: "suya"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var added struct {
		History []entities.SearchHistoryEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	require.Len(t, added.History, 2)
	assert.Equal(t, "suya", added.History[0].Query)

	req := httptest.NewRequest(http.MethodDelete, "/api/search/history/"+added.History[0].ID, nil)
	req.Header.Set(handlers.HeaderSessionID, sid)
	req.SetPathValue("id", added.History[0].ID)
	del := httptest.NewRecorder()
	h.DeleteHistoryEntry(del, req)
	assert.Equal(t, http.StatusNoContent, del.Code)

	rec = doJSON(t, h.GetHistory, http.MethodGet, "/api/search/history", sid, nil)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), "egusi")

	rec = doJSON(t, h.ClearHistory, http.MethodDelete, "/api/search/history", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, h.GetHistory, http.MethodGet, "/api/search/history", sid, nil)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = doJSON(t, h.AddHistory, http.MethodPost, "/api/search/history", sid, handlers.SaveSearchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearSaved(t *testing.T) {
	h := newSearchHandler(t)
	const sid = "session-2"

	doJSON(t, h.Search, http.MethodPost, "/api/search", sid, handlers.SearchRequest{Query: "kente"})
	rec := doJSON(t, h.GetSaved, http.MethodGet, "/api/search/saved", sid, nil)
	require.Contains(t, rec.Body.String(), `"count":1`)

	rec = doJSON(t, h.ClearSaved, http.MethodDelete, "/api/search/saved", sid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.GetSaved, http.MethodGet, "/api/search/saved", sid, nil)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestGetZeroResultQueries(t *testing.T) {
	repo := new(MockSearchAnalyticsRepository)
	repo.On("GetZeroResultQueries", mock.Anything, 25).Return([]*entities.SearchEvent{
		{ID: "e1", Query: "plantain chips", ResultCount: 0},
	}, nil)
	h := handlers.NewSearchHandler(newSessionManager(t), services.NewSearchAnalyticsService(repo))

	rec := doJSON(t, h.GetZeroResultQueries, http.MethodGet, "/api/search/analytics/zero-results?limit=25", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plantain chips")
	repo.AssertExpectations(t)

	rec = doJSON(t, h.GetZeroResultQueries, http.MethodGet, "/api/search/analytics/zero-results?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateFilters(t *testing.T) {
	neg, zero, six, ten := -1.0, 0.0, 6.0, 10.0

	assert.NoError(t, handlers.ValidateFilters(nil))
	assert.NoError(t, handlers.ValidateFilters(&entities.ProductFilters{MinPrice: &zero, MaxPrice: &ten}))
	assert.Error(t, handlers.ValidateFilters(&entities.ProductFilters{MinPrice: &neg}))
	assert.Error(t, handlers.ValidateFilters(&entities.ProductFilters{MaxPrice: &neg}))
	assert.Error(t, handlers.ValidateFilters(&entities.ProductFilters{MinRating: &six}))
	assert.Error(t, handlers.ValidateFilters(&entities.ProductFilters{MinPrice: &ten, MaxPrice: &zero}))
}

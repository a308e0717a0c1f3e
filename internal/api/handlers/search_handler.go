package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/entities"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

const maxZeroResultLimit = 500

// SearchHandler serves the search session API
type SearchHandler struct {
	sessions  *SessionManager
	analytics *services.SearchAnalyticsService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(sessions *SessionManager, analytics *services.SearchAnalyticsService) *SearchHandler {
	return &SearchHandler{
		sessions:  sessions,
		analytics: analytics,
	}
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Query   string                   `json:"query"`
	Filters *entities.ProductFilters `json:"filters,omitempty"`
}

// SaveSearchRequest is the body of POST /api/search/history
type SaveSearchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("query is required"))
		return
	}
	if err := ValidateFilters(req.Filters); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session := h.sessions.Load(w, r)
	resp := session.PerformSearch(r.Context(), req.Query, req.Filters)
	h.sessions.Save(r.Context(), session)

	respondWithJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/search/suggestions?q=
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": session.GetSuggestions(r.Context(), r.URL.Query().Get("q")),
	})
}

// Trending handles GET /api/search/trending
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trending": session.TrendingSearches(),
	})
}

// GetHistory handles GET /api/search/history
func (h *SearchHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	history := session.SearchHistory()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

// AddHistory handles POST /api/search/history
func (h *SearchHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	var req SaveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("query is required"))
		return
	}

	session := h.sessions.Load(w, r)
	session.SaveSearch(req.Query)
	h.sessions.Save(r.Context(), session)

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"history": session.SearchHistory(),
	})
}

// ClearHistory handles DELETE /api/search/history
func (h *SearchHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	session.ClearSearchHistory()
	h.sessions.Save(r.Context(), session)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteHistoryEntry handles DELETE /api/search/history/{id}
func (h *SearchHandler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "history entry ID is required")
		return
	}

	session := h.sessions.Load(w, r)
	session.RemoveFromSearchHistory(id)
	h.sessions.Save(r.Context(), session)
	w.WriteHeader(http.StatusNoContent)
}

// GetSaved handles GET /api/search/saved
func (h *SearchHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	saved := session.SavedSearches()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"saved": saved,
		"count": len(saved),
	})
}

// ClearSaved handles DELETE /api/search/saved
func (h *SearchHandler) ClearSaved(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Load(w, r)
	session.ClearSavedSearches()
	h.sessions.Save(r.Context(), session)
	w.WriteHeader(http.StatusNoContent)
}

// GetZeroResultQueries handles GET /api/search/analytics/zero-results?limit=
func (h *SearchHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 0, maxZeroResultLimit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	events, err := h.analytics.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}

// ValidateFilters rejects filters that can never match a product
func ValidateFilters(f *entities.ProductFilters) error {
	if f == nil {
		return nil
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return apperrors.NewInvalidFilterError("min_price must not be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return apperrors.NewInvalidFilterError("max_price must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return apperrors.NewInvalidFilterError("min_price must not exceed max_price")
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return apperrors.NewInvalidFilterError("min_rating must be between 0 and 5")
	}
	return nil
}

// parseLimit reads ?limit=; absent means defaultLimit, larger values are clamped to maxLimit
func parseLimit(r *http.Request, defaultLimit, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.NewValidationError("limit must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

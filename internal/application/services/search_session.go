package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

const (
	defaultHistoryLimit     = 50
	defaultSavedLimit       = 20
	minSavedQueryLength     = 4
	minSuggestionQueryChars = 2
	maxSessionSuggestions   = 5
)

// SearchEngine executes a single search
type SearchEngine interface {
	Search(ctx context.Context, query, userID string, filters *entities.ProductFilters) (*entities.SearchResponse, error)
	TrendingSearches() []string
}

// SearchTracker receives analytics for completed searches
type SearchTracker interface {
	TrackSearch(ctx context.Context, analytics *entities.SearchAnalytics, sessionID string)
}

// SearchSession is the per-user search facade. It owns the search history
// and saved searches and never returns an error to callers: failed searches
// yield an empty, degraded response. Every mutation publishes a new slice so
// values returned by the accessors are never modified afterwards.
type SearchSession struct {
	id     string
	userID string
	engine SearchEngine

	tracker      SearchTracker
	historyLimit int
	savedLimit   int
	now          func() time.Time

	mu        sync.RWMutex
	history   []entities.SearchHistoryEntry
	saved     []string
	searching atomic.Int32
}

// SessionOption configures a SearchSession
type SessionOption func(*SearchSession)

// WithUserID attaches an authenticated user to the session
func WithUserID(userID string) SessionOption {
	return func(s *SearchSession) {
		s.userID = userID
	}
}

// WithHistoryLimit caps the number of history entries kept
func WithHistoryLimit(limit int) SessionOption {
	return func(s *SearchSession) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithSavedLimit caps the number of saved searches kept
func WithSavedLimit(limit int) SessionOption {
	return func(s *SearchSession) {
		if limit > 0 {
			s.savedLimit = limit
		}
	}
}

// WithSearchTracker forwards analytics of successful searches
func WithSearchTracker(t SearchTracker) SessionOption {
	return func(s *SearchSession) {
		s.tracker = t
	}
}

// WithSessionClock overrides the time source used for history timestamps
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SearchSession) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSearchSession creates an empty session. A blank id is replaced by a new UUID.
func NewSearchSession(id string, engine SearchEngine, opts ...SessionOption) *SearchSession {
	if id == "" {
		id = uuid.New().String()
	}
	s := &SearchSession{
		id:           id,
		engine:       engine,
		historyLimit: defaultHistoryLimit,
		savedLimit:   defaultSavedLimit,
		now:          time.Now,
		history:      []entities.SearchHistoryEntry{},
		saved:        []string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RestoreSearchSession rebuilds a session from a stored snapshot. Options are
// applied after the snapshot, so WithUserID overrides the stored user.
func RestoreSearchSession(snapshot *entities.SessionSnapshot, engine SearchEngine, opts ...SessionOption) *SearchSession {
	s := NewSearchSession(snapshot.ID, engine, append([]SessionOption{WithUserID(snapshot.UserID)}, opts...)...)
	s.history = truncateHistory(append([]entities.SearchHistoryEntry{}, snapshot.History...), s.historyLimit)
	s.saved = append([]string{}, snapshot.SavedSearches...)
	if len(s.saved) > s.savedLimit {
		s.saved = s.saved[len(s.saved)-s.savedLimit:]
	}
	return s
}

// ID returns the session identifier
func (s *SearchSession) ID() string {
	return s.id
}

// UserID returns the authenticated user, or "" for anonymous sessions
func (s *SearchSession) UserID() string {
	return s.userID
}

// IsSearching reports whether a search is in flight
func (s *SearchSession) IsSearching() bool {
	return s.searching.Load() > 0
}

// PerformSearch executes a search and records it. A blank query is ignored
// and returns nil.
func (s *SearchSession) PerformSearch(ctx context.Context, query string, filters *entities.ProductFilters) *entities.SearchResponse {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	s.searching.Add(1)
	defer s.searching.Add(-1)

	resp, err := s.engine.Search(ctx, query, s.userID, filters)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("session_id", s.id).
			Str("query", query).
			Msg("search failed")
		return entities.EmptySearchResponse()
	}

	s.mu.Lock()
	entry := entities.SearchHistoryEntry{
		ID:          uuid.New().String(),
		Query:       query,
		Timestamp:   s.now().UnixMilli(),
		ResultCount: len(resp.Results),
		Filters:     copyFilters(filters),
	}
	s.history = prependHistory(s.history, entry, s.historyLimit)

	if utf8.RuneCountInString(query) >= minSavedQueryLength && len(resp.Results) > 0 && !contains(s.saved, query) {
		saved := append(append(make([]string, 0, len(s.saved)+1), s.saved...), query)
		if len(saved) > s.savedLimit {
			saved = saved[len(saved)-s.savedLimit:]
		}
		s.saved = saved
	}
	s.mu.Unlock()

	if s.tracker != nil && resp.Analytics != nil {
		s.tracker.TrackSearch(ctx, resp.Analytics, s.id)
	}

	return resp
}

// ProductSuggestions returns up to five product suggestions for a partial
// query without touching the history
func (s *SearchSession) ProductSuggestions(ctx context.Context, query string) []entities.SearchSuggestion {
	out := []entities.SearchSuggestion{}
	if utf8.RuneCountInString(query) < minSuggestionQueryChars {
		return out
	}

	resp, err := s.engine.Search(ctx, query, s.userID, nil)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("session_id", s.id).
			Str("query", query).
			Msg("suggestion search failed")
		return out
	}

	for _, sg := range resp.Suggestions {
		if sg.Type != entities.SuggestionTypeProduct {
			continue
		}
		out = append(out, sg)
		if len(out) == maxSessionSuggestions {
			break
		}
	}
	return out
}

// GetSuggestions returns the texts of ProductSuggestions
func (s *SearchSession) GetSuggestions(ctx context.Context, query string) []string {
	suggestions := s.ProductSuggestions(ctx, query)
	texts := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		texts = append(texts, sg.Text)
	}
	return texts
}

// SaveSearch records a query in the history with a zero result count
func (s *SearchSession) SaveSearch(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = prependHistory(s.history, entities.SearchHistoryEntry{
		ID:        uuid.New().String(),
		Query:     query,
		Timestamp: s.now().UnixMilli(),
	}, s.historyLimit)
}

// RemoveFromSearchHistory drops the entry with the given id, if present
func (s *SearchSession) RemoveFromSearchHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]entities.SearchHistoryEntry, 0, len(s.history))
	for _, e := range s.history {
		if e.ID != id {
			next = append(next, e)
		}
	}
	s.history = next
}

// ClearSearchHistory removes every history entry
func (s *SearchSession) ClearSearchHistory() {
	s.mu.Lock()
	s.history = []entities.SearchHistoryEntry{}
	s.mu.Unlock()
}

// ClearSavedSearches removes every saved search
func (s *SearchSession) ClearSavedSearches() {
	s.mu.Lock()
	s.saved = []string{}
	s.mu.Unlock()
}

// SearchHistory returns the history, newest first
func (s *SearchSession) SearchHistory() []entities.SearchHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// SavedSearches returns the saved queries, oldest first
func (s *SearchSession) SavedSearches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// TrendingSearches returns the engine's trending phrases
func (s *SearchSession) TrendingSearches() []string {
	return s.engine.TrendingSearches()
}

// Snapshot captures the session state for persistence
func (s *SearchSession) Snapshot() *entities.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &entities.SessionSnapshot{
		ID:            s.id,
		UserID:        s.userID,
		History:       s.history,
		SavedSearches: s.saved,
		UpdatedAt:     s.now(),
	}
}

func prependHistory(history []entities.SearchHistoryEntry, entry entities.SearchHistoryEntry, limit int) []entities.SearchHistoryEntry {
	next := make([]entities.SearchHistoryEntry, 0, min(len(history)+1, limit))
	next = append(next, entry)
	next = append(next, history...)
	return truncateHistory(next, limit)
}

func truncateHistory(history []entities.SearchHistoryEntry, limit int) []entities.SearchHistoryEntry {
	if len(history) > limit {
		return history[:limit]
	}
	return history
}

func copyFilters(f *entities.ProductFilters) *entities.ProductFilters {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

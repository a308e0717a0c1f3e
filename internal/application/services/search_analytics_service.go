package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
)

const defaultZeroResultLimit = 100

type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

// NewSearchAnalyticsService creates the tracker. A nil repo makes it a no-op.
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch persists the analytics of one search in the background
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, analytics *entities.SearchAnalytics, sessionID string) {
	if s.repo == nil || analytics == nil {
		return
	}

	event := NewSearchEvent(analytics, sessionID)
	logger := observability.LoggerFromContext(ctx)

	go func() {
		// request context is usually cancelled by the time this runs
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			logger.Warn().Err(err).Str("query", event.Query).Msg("failed to log search event")
		}
	}()
}

// GetZeroResultQueries lists recent searches that matched nothing
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if s.repo == nil {
		return []*entities.SearchEvent{}, nil
	}
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}
	return s.repo.GetZeroResultQueries(ctx, limit)
}

// NewSearchEvent converts search analytics into a persisted event
func NewSearchEvent(analytics *entities.SearchAnalytics, sessionID string) *entities.SearchEvent {
	createdAt := time.UnixMilli(analytics.Timestamp).UTC()
	if analytics.Timestamp == 0 {
		createdAt = time.Now().UTC()
	}
	return &entities.SearchEvent{
		ID:              uuid.New().String(),
		Query:           analytics.Query,
		NormalizedQuery: strings.ToLower(strings.TrimSpace(analytics.Query)),
		ResultCount:     analytics.ResultCount,
		LatencyMs:       int(analytics.SessionDuration),
		UserID:          analytics.UserID,
		SessionID:       sessionID,
		CreatedAt:       createdAt,
	}
}

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

const defaultZeroResultLimit = 100

type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":               event.ID,
		"query":            event.Query,
		"normalized_query": event.NormalizedQuery,
		"result_count":     event.ResultCount,
		"latency_ms":       event.LatencyMs,
		"user_id":          sql.NullString{String: event.UserID, Valid: event.UserID != ""},
		"session_id":       sql.NullString{String: event.SessionID, Valid: event.SessionID != ""},
		"created_at":       event.CreatedAt,
	}

	query, args, err := a.db.Insert("search_analytics").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}

	query, args, err := a.db.Select(
		"id", "query", "normalized_query", "result_count", "latency_ms", "user_id", "session_id", "created_at",
	).From("search_analytics").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		var (
			e         entities.SearchEvent
			userID    sql.NullString
			sessionID sql.NullString
		)
		err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.NormalizedQuery,
			&e.ResultCount,
			&e.LatencyMs,
			&userID,
			&sessionID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		e.UserID = userID.String
		e.SessionID = sessionID.String
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}

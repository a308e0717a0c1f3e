package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID              string    `json:"id" db:"id"`
	Query           string    `json:"query" db:"query"`
	NormalizedQuery string    `json:"normalized_query" db:"normalized_query"`
	ResultCount     int       `json:"result_count" db:"result_count"`
	LatencyMs       int       `json:"latency_ms" db:"latency_ms"`
	UserID          string    `json:"user_id,omitempty" db:"user_id"`
	SessionID       string    `json:"session_id,omitempty" db:"session_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

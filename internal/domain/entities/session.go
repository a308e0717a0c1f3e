package entities

import (
	"time"
)

// SessionSnapshot is the persisted state of one search session
type SessionSnapshot struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id,omitempty"`
	History       []SearchHistoryEntry `json:"history"`
	SavedSearches []string             `json:"saved_searches"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

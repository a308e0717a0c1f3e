package repositories

import (
	"context"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

// SessionRepository stores search session state between HTTP requests
type SessionRepository interface {
	// Get returns the snapshot for id, or a NOT_FOUND AppError
	Get(ctx context.Context, id string) (*entities.SessionSnapshot, error)
	Save(ctx context.Context, snapshot *entities.SessionSnapshot) error
	Delete(ctx context.Context, id string) error
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
	"github.com/zatekoja/zoramarket/internal/domain/providers"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

const sessionKeyPrefix = "search:session:"

// SessionStore keeps search session snapshots in a CacheProvider as JSON
type SessionStore struct {
	cache      providers.CacheProvider
	ttlSeconds int
}

var _ repositories.SessionRepository = (*SessionStore)(nil)

// NewSessionStore creates a session store whose entries expire after ttlSeconds
func NewSessionStore(cache providers.CacheProvider, ttlSeconds int) *SessionStore {
	return &SessionStore{cache: cache, ttlSeconds: ttlSeconds}
}

// Get loads a session snapshot
func (s *SessionStore) Get(ctx context.Context, id string) (*entities.SessionSnapshot, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("search session %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load search session", err)
	}

	var snapshot entities.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.NewInternalError("failed to decode search session", err)
	}
	return &snapshot, nil
}

// Save stores a session snapshot, refreshing its TTL
func (s *SessionStore) Save(ctx context.Context, snapshot *entities.SessionSnapshot) error {
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewInternalError("failed to encode search session", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+snapshot.ID, data, s.ttlSeconds); err != nil {
		return apperrors.NewInternalError("failed to save search session", err)
	}
	return nil
}

// Delete removes a session snapshot
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+id); err != nil {
		return apperrors.NewInternalError("failed to delete search session", err)
	}
	return nil
}

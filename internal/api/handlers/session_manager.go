package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/zatekoja/zoramarket/internal/application/services"
	"github.com/zatekoja/zoramarket/internal/domain/repositories"
	"github.com/zatekoja/zoramarket/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/zoramarket/pkg/errors"
)

const (
	// HeaderSessionID identifies the search session; generated when absent
	HeaderSessionID = "X-Session-ID"
	// HeaderUserID identifies the signed-in user, if any
	HeaderUserID = "X-User-ID"
)

// SessionManager restores and persists search sessions across requests.
// Concurrent requests on one session are last write wins.
type SessionManager struct {
	store  repositories.SessionRepository
	engine services.SearchEngine
	opts   []services.SessionOption
}

// NewSessionManager creates a session manager; opts apply to every session
func NewSessionManager(store repositories.SessionRepository, engine services.SearchEngine, opts ...services.SessionOption) *SessionManager {
	return &SessionManager{store: store, engine: engine, opts: opts}
}

// Load returns the session named by the request headers and echoes its ID
// on the response
func (m *SessionManager) Load(w http.ResponseWriter, r *http.Request) *services.SearchSession {
	ctx := r.Context()
	id := r.Header.Get(HeaderSessionID)
	userID := r.Header.Get(HeaderUserID)
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set(HeaderSessionID, id)

	opts := m.opts
	if userID != "" {
		opts = append(append([]services.SessionOption{}, m.opts...), services.WithUserID(userID))
	}

	snapshot, err := m.store.Get(ctx, id)
	if err != nil {
		if apperrors.TypeOf(err) != apperrors.ErrorTypeNotFound {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", id).Msg("failed to load search session, starting fresh")
		}
		return services.NewSearchSession(id, m.engine, opts...)
	}
	return services.RestoreSearchSession(snapshot, m.engine, opts...)
}

// Save persists the session state; failures are logged only
func (m *SessionManager) Save(ctx context.Context, session *services.SearchSession) {
	if err := m.store.Save(ctx, session.Snapshot()); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("session_id", session.ID()).Msg("failed to save search session")
	}
}

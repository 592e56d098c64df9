package repository

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
)

// SessionStore keeps the credentials of logged-in sessions. It is the login dispatcher.
type SessionStore struct {
	sessions *expirable.LRU[string, entity.Credential]
	logger   logger.Logger
}

var _ port.LoginDispatcher = (*SessionStore)(nil)

// NewSessionStore creates a session store holding at most size sessions for ttl each
func NewSessionStore(size int, ttl time.Duration, logger logger.Logger) *SessionStore {
	onEvict := func(_ string, credential entity.Credential) {
		clear(credential.PrivateKey) // wipe key bytes from memory
	}
	return &SessionStore{
		sessions: expirable.NewLRU[string, entity.Credential](size, onEvict, ttl),
		logger:   logger,
	}
}

// DispatchLogin records the credential of a successful login
func (s *SessionStore) DispatchLogin(ctx context.Context, action entity.LoginAction) error {
	credential := action.Credential
	credential.PrivateKey = slices.Clone(action.Credential.PrivateKey)
	s.sessions.Add(action.SessionID, credential)

	s.logger.LogInfo(ctx, "Session opened",
		"session_id", action.SessionID,
		"address", credential.Address)

	return nil
}

// Get returns a copy of the credential stored for a session
func (s *SessionStore) Get(_ context.Context, sessionID string) (*entity.Credential, error) {
	credential, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	credential.PrivateKey = slices.Clone(credential.PrivateKey)
	return &credential, nil
}

// Logout drops a session
func (s *SessionStore) Logout(ctx context.Context, sessionID string) {
	if s.sessions.Remove(sessionID) {
		s.logger.LogInfo(ctx, "Session closed", "session_id", sessionID)
	}
}

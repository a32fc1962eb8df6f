package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"agencydesk/internal/models"
	"agencydesk/internal/util"

	"go.uber.org/zap"
)

// Store owns the Session state. Only the auth manager mutates it;
// the API client and the guard read from it. All mutators persist the
// durable subset before returning.
type Store struct {
	mu      sync.RWMutex
	state   State
	backend Backend
	logger  *zap.Logger
}

// NewStore creates a Store in the loading state. Call Load to hydrate
// it from the backend before evaluating guards against it.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		state:   State{IsLoading: true},
		backend: backend,
		logger:  logger,
	}
}

// Load hydrates the store from persisted state. A persisted token is
// trusted as-is: IsAuthenticated flips to true without a server
// round-trip, so a revoked token looks live until the first API call
// returns 401. An interrupted 2FA flow resumes as TwoFactorRequired.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}

	data, err := s.backend.Load(sessionKey)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if data != nil {
		var ps persistedState
		if err := json.Unmarshal(data, &ps); err != nil {
			// Corrupt state is treated as logged out rather than fatal
			s.logger.Warn("Discarding unreadable session state", util.ErrorField(err))
		} else {
			s.state.User = ps.User
			s.state.Token = ps.Token
			s.state.IsAuthenticated = ps.Token != ""
		}
	}

	if s.state.Token == "" {
		pdata, err := s.backend.Load(pendingKey)
		if err != nil {
			return fmt.Errorf("failed to load pending state: %w", err)
		}
		if pdata != nil {
			var pend pendingState
			if err := json.Unmarshal(pdata, &pend); err != nil {
				s.logger.Warn("Discarding unreadable pending state", util.ErrorField(err))
			} else if pend.TempToken != "" {
				s.state.TempToken = pend.TempToken
				s.state.PendingUser = pend.User
				s.state.TwoFactorRequired = true
			}
		}
	} else {
		// A live token supersedes any stale second-factor leftovers
		if err := s.backend.Delete(pendingKey); err != nil {
			s.logger.Warn("Failed to drop stale pending state", util.ErrorField(err))
		}
	}

	s.logger.Debug("Session hydrated",
		util.Bool("authenticated", s.state.IsAuthenticated),
		util.Bool("two_factor_required", s.state.TwoFactorRequired),
	)
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current final bearer token, read fresh on every
// call so requests always reflect the latest login.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// TempToken returns the transient second-factor credential, if any.
func (s *Store) TempToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TempToken
}

// InstallSession records a completed login: the final token and user
// are persisted, and any second-factor leftovers are consumed.
func (s *Store) InstallSession(user *models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = user
	s.state.Token = token
	s.state.IsAuthenticated = true
	s.state.TwoFactorRequired = false
	s.state.TempToken = ""
	s.state.PendingUser = nil

	if err := s.backend.Delete(pendingKey); err != nil {
		return err
	}
	return s.persistSessionLocked()
}

// BeginTwoFactor records a password-stage success that still needs a
// second factor. The temp credential lives in its own slot; the main
// session stays anonymous.
func (s *Store) BeginTwoFactor(tempToken string, pending *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.state.TwoFactorRequired = true
	s.state.TempToken = tempToken
	s.state.PendingUser = pending

	data, err := json.Marshal(pendingState{TempToken: tempToken, User: pending})
	if err != nil {
		return fmt.Errorf("failed to marshal pending state: %w", err)
	}
	if err := s.backend.Delete(sessionKey); err != nil {
		return err
	}
	return s.backend.Store(pendingKey, data)
}

// SetUser replaces the in-memory user record and re-persists.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	return s.persistSessionLocked()
}

// UpdateUser merges a partial profile update into the current user.
// It is a no-op when no user is present.
func (s *Store) UpdateUser(patch models.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	updated := *s.state.User
	patch.Apply(&updated)
	s.state.User = &updated
	return s.persistSessionLocked()
}

// SetLoading flips the hydration flag without touching persistence.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

// Clear erases every field and both persisted slots. Clearing an
// already-empty store is a no-op, so logout is idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}

	if err := s.backend.Delete(sessionKey); err != nil {
		return err
	}
	return s.backend.Delete(pendingKey)
}

func (s *Store) persistSessionLocked() error {
	data, err := json.Marshal(persistedState{
		User:            s.state.User,
		Token:           s.state.Token,
		IsAuthenticated: s.state.IsAuthenticated,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.backend.Store(sessionKey, data)
}

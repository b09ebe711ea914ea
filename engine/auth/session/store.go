// Package session owns the single authenticated session for the
// current actor. All consumers read through the store's accessors and
// never cache a copy of the session value.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/negotiapro/copilot/engine/auth/model"
	"github.com/negotiapro/copilot/pkg/logger"
)

// Authenticator exchanges an actor ID (and optional secret) for an
// authenticated session with a bearer credential. Implementations
// return errors wrapping ErrInvalidCredentials or
// ErrAuthorityUnreachable.
type Authenticator interface {
	Authenticate(ctx context.Context, actorID, secret string) (*model.Session, error)
}

// Store is the exclusive owner of the current session. It is safe for
// concurrent use; every mutation holds the store lock so transitions
// are atomic with respect to each other.
type Store struct {
	mu      sync.RWMutex
	current *model.Session
	loading bool
	storage Storage
}

// NewStore creates a session store. The store reports Loading() true
// until Restore has run, so access decisions are not trusted before
// the persisted record has been considered.
func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		loading: true,
	}
}

// Restore reinstates a previously persisted session. A malformed
// record is discarded and the store stays unauthenticated; parse
// failures are never surfaced to the caller.
func (s *Store) Restore(ctx context.Context) {
	log := logger.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	data, ok, err := s.storage.Load()
	if err != nil {
		log.Warn("failed to load persisted session", "error", err)
		return
	}
	if !ok {
		return
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.WellFormed() {
		log.Warn("discarding corrupt persisted session", "error", err)
		if wipeErr := s.storage.Wipe(); wipeErr != nil {
			log.Warn("failed to discard corrupt session record", "error", wipeErr)
		}
		return
	}
	s.current = &sess
	log.Debug("session restored", "actor_id", sess.ActorID, "role", sess.Role)
}

// Login authenticates against the external authority and, on success,
// persists and installs the session. On rejection no state changes.
func (s *Store) Login(ctx context.Context, auth Authenticator, actorID, secret string) (*model.Session, error) {
	sess, err := auth.Authenticate(ctx, actorID, secret)
	if err != nil {
		return nil, err
	}
	if !sess.WellFormed() {
		return nil, fmt.Errorf("%w: authority returned an incomplete session", ErrInvalidCredentials)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session record: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(data); err != nil {
		return nil, err
	}
	s.current = sess
	logger.FromContext(ctx).Info("logged in", "actor_id", sess.ActorID, "role", sess.Role)
	return sess, nil
}

// Logout clears the in-memory session and wipes all session-scoped
// storage. Logging out with no active session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if err := s.storage.Wipe(); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("session cleared")
	return nil
}

// Current returns a copy of the active session, if any.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.WellFormed() {
		return model.Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a well-formed session is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Loading reports whether Restore has not completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Credential returns the bearer credential of the active session, or
// the empty string when unauthenticated.
func (s *Store) Credential() string {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.Credential
}

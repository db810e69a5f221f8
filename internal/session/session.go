// Package session holds the authenticated identity and the role gate. A new
// login replaces the prior session wholesale; the snapshot persists across
// restarts and a corrupt snapshot degrades to guest.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/model"
)

// SnapshotName is the session snapshot file.
const SnapshotName = "session"

// Persister saves and restores named JSON snapshots.
type Persister interface {
	Save(name string, v any) error
	Load(name string, v any) (ok bool)
	Remove(name string) error
}

// fallbackTTL is assumed when the access token carries no exp claim.
const fallbackTTL = 24 * time.Hour

// Store is the session singleton.
type Store struct {
	mu    sync.Mutex
	id    *model.Identity
	files Persister
	log   *zap.Logger
	now   func() time.Time
}

// NewStore loads the persisted session if one exists; anything else means
// guest.
func NewStore(files Persister, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{files: files, log: log, now: time.Now}
	var id model.Identity
	if files.Load(SnapshotName, &id) && id.Token != "" {
		s.id = &id
	}
	return s
}

// Login replaces any existing session unconditionally and persists it. The
// token's exp claim (when present) becomes the session expiry.
func (s *Store) Login(id model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id.ExpiresAt = tokenExpiry(id.Token, s.now().Add(fallbackTTL))
	s.id = &id
	if err := s.files.Save(SnapshotName, id); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.log.Debug("session replaced",
		zap.String("email", id.Email),
		zap.String("role", string(id.Role)),
		zap.Time("expiresAt", id.ExpiresAt),
	)
	return nil
}

// Logout destroys the session and erases the snapshot. Logging out as a guest
// is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = nil
	if err := s.files.Remove(SnapshotName); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Debug("session destroyed")
	return nil
}

// Current returns the identity, ok=false for guests.
func (s *Store) Current() (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return model.Identity{}, false
	}
	return *s.id, true
}

// IsAuthenticated is true iff an identity is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// HasRole re-evaluates the predicate against the current session on every
// call; nothing is cached across login/logout transitions.
func (s *Store) HasRole(r model.Role) bool {
	id, ok := s.Current()
	return ok && id.Role == r
}

// Token returns the bearer token, ok=false when guest or expired.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil || s.now().After(s.id.ExpiresAt) {
		return "", false
	}
	return s.id.Token, true
}

// tokenExpiry pulls exp from the JWT without verifying the signature — the
// client only needs the timestamp, the server enforces validity.
func tokenExpiry(token string, fallback time.Time) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return fallback
}

// Package session holds the authenticated API session for the whole
// client: token pair, username, and durable persistence across runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const sessionFile = "session.json"

// ErrTokenMalformed is returned when the access token cannot be decoded.
var ErrTokenMalformed = errors.New("access token malformed")

// Session is a snapshot of the current login state. AccessToken and
// RefreshToken are either both set (logged in) or both empty.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
}

// LoggedIn reports whether the session holds a token pair.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// Store is the single source of truth for the current session. It is
// safe for concurrent use and notifies subscribers on every change.
type Store struct {
	dir    string // empty means in-memory only
	logger zerolog.Logger

	mu      sync.RWMutex
	current Session
	subs    []func(Session)
}

// NewStore creates a session store persisting under dir. A previously
// saved session is loaded if present. If dir is empty, or the saved file
// is unreadable, the store starts empty and works in memory only.
func NewStore(dir string, logger zerolog.Logger) *Store {
	s := &Store{dir: dir, logger: logger}
	s.load()
	return s
}

// Current returns a snapshot of the session. Never blocks on I/O.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set stores a full session atomically and notifies subscribers.
func (s *Store) Set(access, refresh, username string) {
	s.mu.Lock()
	s.current = Session{AccessToken: access, RefreshToken: refresh, Username: username}
	snapshot := s.current
	s.mu.Unlock()

	s.save(snapshot)
	s.notify(snapshot)
}

// UpdateAccess replaces only the access token, keeping the refresh token
// and username. Used by the token refresh path.
func (s *Store) UpdateAccess(access string) {
	s.mu.Lock()
	s.current.AccessToken = access
	snapshot := s.current
	s.mu.Unlock()

	s.save(snapshot)
	s.notify(snapshot)
}

// Clear erases the session. Safe to call when already empty.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if s.dir != "" {
		if err := os.Remove(filepath.Join(s.dir, sessionFile)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Msg("failed to remove saved session")
		}
	}
	s.notify(Session{})
}

// Subscribe registers fn to be called after every session change.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// UserID decodes the user_id claim from the access token. The token is
// parsed without signature verification: the ID is used for display and
// partner derivation only, never for authorization decisions.
func (s *Store) UserID() (int64, error) {
	current := s.Current()
	if current.AccessToken == "" {
		return 0, fmt.Errorf("not logged in: %w", ErrTokenMalformed)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(current.AccessToken, claims); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	switch id := claims["user_id"].(type) {
	case float64:
		return int64(id), nil
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: user_id claim: %v", ErrTokenMalformed, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: missing user_id claim", ErrTokenMalformed)
	}
}

func (s *Store) load() {
	if s.dir == "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return
	}
	var saved Session
	if err := json.Unmarshal(data, &saved); err != nil {
		s.logger.Warn().Err(err).Msg("saved session unreadable, starting logged out")
		return
	}
	s.current = saved
}

func (s *Store) save(snapshot Session) {
	if s.dir == "" {
		return
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.logger.Warn().Err(err).Msg("session will not persist across runs")
		return
	}
	data, _ := json.MarshalIndent(snapshot, "", "  ")
	if err := os.WriteFile(filepath.Join(s.dir, sessionFile), data, 0600); err != nil {
		s.logger.Warn().Err(err).Msg("session will not persist across runs")
	}
}

func (s *Store) notify(snapshot Session) {
	s.mu.RLock()
	subs := make([]func(Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

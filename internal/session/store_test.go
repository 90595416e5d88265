package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// forgeToken builds an unsigned JWT carrying the given claims payload.
func forgeToken(t *testing.T, claims string) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(claims))
	return header + "." + payload + "." + enc.EncodeToString([]byte("sig"))
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	return NewStore(dir, zerolog.Nop())
}

func TestSetAndCurrent(t *testing.T) {
	s := newTestStore(t, "")

	s.Set("acc", "ref", "maya")
	got := s.Current()
	if got.AccessToken != "acc" || got.RefreshToken != "ref" || got.Username != "maya" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.LoggedIn() {
		t.Fatal("expected LoggedIn after Set")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := newTestStore(t, "")
	s.Set("acc", "ref", "maya")

	s.Clear()
	if s.Current().LoggedIn() {
		t.Fatal("expected logged out after Clear")
	}
	s.Clear()
	if s.Current() != (Session{}) {
		t.Fatalf("expected empty session, got %+v", s.Current())
	}
}

func TestUpdateAccessKeepsRefreshAndUsername(t *testing.T) {
	s := newTestStore(t, "")
	s.Set("old", "ref", "maya")

	s.UpdateAccess("new")
	got := s.Current()
	if got.AccessToken != "new" {
		t.Fatalf("expected access token 'new', got %q", got.AccessToken)
	}
	if got.RefreshToken != "ref" || got.Username != "maya" {
		t.Fatalf("refresh token or username changed: %+v", got)
	}
}

func TestSubscribeNotifiedOnEveryChange(t *testing.T) {
	s := newTestStore(t, "")

	var seen []Session
	s.Subscribe(func(snapshot Session) {
		seen = append(seen, snapshot)
	})

	s.Set("acc", "ref", "maya")
	s.UpdateAccess("acc2")
	s.Clear()

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if seen[0].AccessToken != "acc" || seen[1].AccessToken != "acc2" {
		t.Fatalf("unexpected notifications: %+v", seen)
	}
	if seen[2].LoggedIn() {
		t.Fatal("expected final notification to be logged out")
	}
}

func TestPersistenceAcrossStores(t *testing.T) {
	dir := t.TempDir()

	first := newTestStore(t, dir)
	first.Set("acc", "ref", "maya")

	second := newTestStore(t, dir)
	got := second.Current()
	if got.AccessToken != "acc" || got.Username != "maya" {
		t.Fatalf("expected session to survive restart, got %+v", got)
	}

	second.Clear()
	third := newTestStore(t, dir)
	if third.Current().LoggedIn() {
		t.Fatal("expected Clear to remove the saved session")
	}
}

func TestCorruptSavedSessionStartsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, sessionFile), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t, dir)
	if s.Current().LoggedIn() {
		t.Fatal("expected logged out with corrupt session file")
	}
}

func TestUserID(t *testing.T) {
	s := newTestStore(t, "")
	s.Set(forgeToken(t, `{"user_id":42,"exp":9999999999}`), "ref", "maya")

	id, err := s.UserID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 {
		t.Fatalf("expected user ID 42, got %d", id)
	}
}

func TestUserIDNotLoggedIn(t *testing.T) {
	s := newTestStore(t, "")

	_, err := s.UserID()
	if err == nil {
		t.Fatal("expected error when logged out")
	}
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestUserIDMalformedToken(t *testing.T) {
	s := newTestStore(t, "")
	s.Set("not-a-jwt", "ref", "maya")

	_, err := s.UserID()
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestUserIDMissingClaim(t *testing.T) {
	s := newTestStore(t, "")
	s.Set(forgeToken(t, `{"sub":"maya"}`), "ref", "maya")

	_, err := s.UserID()
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestSavedSessionFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	s.Set("acc", "ref", "maya")

	info, err := os.Stat(filepath.Join(dir, sessionFile))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("expected mode 0600, got %s", fmt.Sprintf("%o", perm))
	}
}

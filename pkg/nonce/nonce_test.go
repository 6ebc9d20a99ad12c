package nonce_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-settingspage/pkg/nonce"
)

type clock struct{ at time.Time }

func (c *clock) now() time.Time { return c.at }

func newManager(t *testing.T, c *clock) *nonce.Manager {
	t.Helper()
	m, err := nonce.New([]byte("test-secret"), nonce.WithLifetime(2*time.Hour), nonce.WithClock(c.now))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestVerifyAges(t *testing.T) {
	c := &clock{at: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)}
	m := newManager(t, c)

	token := m.Create("save", "session-a")
	if age, ok := m.Verify(token, "save", "session-a"); !ok || age != 1 {
		t.Fatalf("fresh token: age=%d ok=%v", age, ok)
	}

	c.at = c.at.Add(time.Hour)
	if age, ok := m.Verify(token, "save", "session-a"); !ok || age != 2 {
		t.Fatalf("previous tick token: age=%d ok=%v", age, ok)
	}

	c.at = c.at.Add(time.Hour)
	if _, ok := m.Verify(token, "save", "session-a"); ok {
		t.Fatalf("expired token verified")
	}
}

func TestVerifyBindsActionAndSession(t *testing.T) {
	c := &clock{at: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	m := newManager(t, c)

	token := m.Create("save", "session-a")
	if m.Valid(token, "tab_switch", "session-a") {
		t.Fatalf("token verified for another action")
	}
	if m.Valid(token, "save", "session-b") {
		t.Fatalf("token verified for another session")
	}
	if m.Valid("", "save", "session-a") {
		t.Fatalf("empty token verified")
	}

	other, err := nonce.New([]byte("other-secret"), nonce.WithClock(c.now))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if other.Valid(token, "save", "session-a") {
		t.Fatalf("token verified under another secret")
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := nonce.New(nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	m, err := nonce.NewRandom()
	if err != nil {
		t.Fatalf("random manager: %v", err)
	}
	if m.Lifetime() != nonce.DefaultLifetime {
		t.Fatalf("lifetime = %s", m.Lifetime())
	}
}

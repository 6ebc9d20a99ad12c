// Package nonce issues and verifies anti-forgery tokens bound to an action
// and a session. Tokens are valid for one lifetime window split into two
// ticks: a token minted in the current tick verifies with age 1, one minted
// in the previous tick with age 2.
package nonce

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// DefaultLifetime matches the one-day window admin tokens usually get.
const DefaultLifetime = 24 * time.Hour

const tokenLength = 20

// Option configures a Manager.
type Option func(*Manager)

// WithLifetime overrides the validity window. Non-positive values are ignored.
func WithLifetime(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lifetime = d
		}
	}
}

// WithClock replaces the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager mints and checks tokens. It is safe for concurrent use.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// New builds a Manager keyed by secret.
func New(secret []byte, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("nonce: secret is required")
	}
	m := &Manager{
		secret:   append([]byte(nil), secret...),
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m, nil
}

// NewRandom builds a Manager with a random secret. Tokens do not survive a
// process restart.
func NewRandom(opts ...Option) (*Manager, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return New(secret, opts...)
}

// Create returns a token for action in session.
func (m *Manager) Create(action, session string) string {
	return m.sign(m.tick(), action, session)
}

// Verify checks token against action and session. It returns the token age
// in ticks (1 or 2) and whether it is valid.
func (m *Manager) Verify(token, action, session string) (int, bool) {
	if m == nil || token == "" {
		return 0, false
	}
	tick := m.tick()
	if hmac.Equal([]byte(token), []byte(m.sign(tick, action, session))) {
		return 1, true
	}
	if hmac.Equal([]byte(token), []byte(m.sign(tick-1, action, session))) {
		return 2, true
	}
	return 0, false
}

// Valid is Verify without the age.
func (m *Manager) Valid(token, action, session string) bool {
	_, ok := m.Verify(token, action, session)
	return ok
}

// Lifetime returns the configured validity window.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

func (m *Manager) tick() int64 {
	half := int64(m.lifetime / 2)
	if half <= 0 {
		half = 1
	}
	ns := m.now().UnixNano()
	tick := ns / half
	if ns%half != 0 {
		tick++
	}
	return tick
}

func (m *Manager) sign(tick int64, action, session string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(session))
	sum := hex.EncodeToString(mac.Sum(nil))
	return sum[:tokenLength]
}

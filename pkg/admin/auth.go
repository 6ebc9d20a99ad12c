package admin

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/settings"
)

// TokenCookie carries the access token for browser sessions.
const TokenCookie = "settingspage_token"

// User is an account allowed into the admin.
type User struct {
	Name         string   `json:"name" yaml:"name" mapstructure:"name"`
	Token        string   `json:"token" yaml:"token" mapstructure:"token"`
	Capabilities []string `json:"capabilities" yaml:"capabilities" mapstructure:"capabilities"`
}

// Principal is a signed-in User. The session token is derived from the
// access token so save tokens stop verifying when the access token rotates.
type Principal struct {
	user    User
	session string
}

func newPrincipal(user User) Principal {
	sum := sha256.Sum256([]byte(user.Name + "\x00" + user.Token))
	return Principal{user: user, session: hex.EncodeToString(sum[:16])}
}

func (p Principal) ID() string           { return p.user.Name }
func (p Principal) SessionToken() string { return p.session }

func (p Principal) Can(capability string) bool {
	for _, held := range p.user.Capabilities {
		if held == capability {
			return true
		}
	}
	return false
}

var _ settings.Principal = Principal{}

type principalKey struct{}

// PrincipalFromContext returns the principal attached by the host
// middleware, or nil.
func PrincipalFromContext(ctx context.Context) settings.Principal {
	principal, _ := ctx.Value(principalKey{}).(settings.Principal)
	return principal
}

// ResolvePrincipal matches the request's bearer token or token cookie
// against the configured users. Without a token the dev user, when set, is
// used.
func (h *Host) ResolvePrincipal(r *http.Request) settings.Principal {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		if cookie, err := r.Cookie(TokenCookie); err == nil {
			token = strings.TrimSpace(cookie.Value)
		}
	}
	if token == "" {
		if user, ok := h.userByName(h.cfg.DevUser); ok {
			return newPrincipal(user)
		}
		return nil
	}
	for _, user := range h.cfg.Users {
		if user.Token == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(user.Token), []byte(token)) == 1 {
			return newPrincipal(user)
		}
	}
	return nil
}

func (h *Host) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := h.ResolvePrincipal(r)
		if principal == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Host) userByName(name string) (User, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, false
	}
	for _, user := range h.cfg.Users {
		if user.Name == name {
			return user, true
		}
	}
	return User{}, false
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

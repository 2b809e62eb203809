// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	DefaultSessionName = "threadhub-session"

	identityKey = "identity"
	signedAtKey = "signed_at"
)

// ErrShortSessionKey is returned when the configured session key is too short
// to sign cookies safely.
var ErrShortSessionKey = errors.New("session key must be at least 32 characters")

type ctxKey string

const currentIdentityKey ctxKey = "currentIdentity"

// SessionManager reads and writes the caller's identity in a signed cookie.
// The identity is the external id issued by the identity provider.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	logger *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
// secure=false is for local development over plain http.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if len(sessionKey) < 32 {
		return nil, ErrShortSessionKey
	}
	if name == "" {
		name = DefaultSessionName
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure))

	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// CurrentIdentity returns the caller's identity and whether one was found.
func CurrentIdentity(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(currentIdentityKey).(string)
	return id, ok && id != ""
}

// WithIdentity returns r with identity placed in its context. Handler tests
// use it to bypass the cookie.
func WithIdentity(r *http.Request, identity string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentIdentityKey, identity))
}

// LoadSession injects the caller's identity into the request context when
// the session cookie carries one.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// Tampered or stale cookie: treat the caller as anonymous.
			sm.logger.Debug("session decode failed", zap.Error(err))
		}
		if sess != nil {
			if id, _ := sess.Values[identityKey].(string); strings.TrimSpace(id) != "" {
				r = WithIdentity(r, id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests without an identity with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn stores identity in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, identity string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[identityKey] = identity
	sess.Values[signedAtKey] = time.Now().UTC().Unix()
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	delete(sess.Values, identityKey)
	delete(sess.Values, signedAtKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

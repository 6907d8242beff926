package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atinyakov/restofinder/internal/models"
)

// DefaultCookieName is the cookie that carries the session id.
const DefaultCookieName = "restofinder_session"

// ManagerConfig controls the session cookie.
type ManagerConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager moves session ids between cookies and a Store.
type Manager struct {
	store Store
	cfg   ManagerConfig
}

// NewManager creates a Manager. An empty cookie name falls back to DefaultCookieName.
func NewManager(store Store, cfg ManagerConfig) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{store: store, cfg: cfg}
}

// Store returns the underlying session store.
func (m *Manager) Store() Store {
	return m.store
}

// Start creates a session for user and sets the session cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, user *models.User) (*Session, error) {
	s, err := New(user.ID, user.Name, m.cfg.TTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		Secure:   m.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Current returns the session referenced by the request cookie.
// A request without the cookie yields ErrSessionNotFound.
func (m *Manager) Current(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(r.Context(), c.Value)
}

// End deletes the session referenced by the request, if any, and expires the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, cerr := r.Cookie(m.cfg.CookieName); cerr == nil && c.Value != "" {
		if derr := m.store.Delete(ctx, c.Value); derr != nil {
			err = fmt.Errorf("delete session: %w", derr)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// IsInvalid reports whether err means the caller has no usable session.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired)
}

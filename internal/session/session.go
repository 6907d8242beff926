// Package session binds authenticated users to browser sessions.
//
// A session is a server-side record addressed by an opaque random id that the
// browser holds in a cookie. Stores keep the records; Manager moves ids
// between cookies and stores.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session exists but is past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Session is the state kept for a logged-in browser.
type Session struct {
	// ID is the opaque token stored in the session cookie.
	ID string `json:"id"`
	// UserID is the id of the authenticated account.
	UserID string `json:"user_id"`
	// UserName is the account's display name.
	UserName string `json:"user_name"`
	// CreatedAt is when the user logged in.
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is when the session stops being valid.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// New creates a session for the user that lives for ttl.
func New(userID, userName string, ttl time.Duration) (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Store persists sessions.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error
	// Get returns the session with the given id, ErrSessionNotFound if it is
	// unknown and ErrSessionExpired if it has expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// CleanupExpired removes expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)
}

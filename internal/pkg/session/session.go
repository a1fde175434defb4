// Package session stores server-side login sessions. A session is the explicit
// identity contract behind a token: it carries an absolute expiry and can be
// revoked before then.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
	ErrRevoked  = errors.New("session revoked")
)

// Session is one login of one account.
type Session struct {
	ID        string     `json:"id"`
	AccountID string     `json:"accountId"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// Check returns ErrRevoked or ErrExpired when the session is no longer usable at now.
func (s *Session) Check(now time.Time) error {
	if s.RevokedAt != nil {
		return ErrRevoked
	}
	if !now.Before(s.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown ids. It does not check expiry.
	Get(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	// DeleteExpired removes sessions past expiry and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

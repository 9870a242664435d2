// Package session stores refresh-token sessions.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found or expired")

// Record is what a refresh token resolves to. Hash is the bcrypt hash of the
// token's SHA-256 digest; the raw token is never stored.
type Record struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store interface {
	Save(ctx context.Context, tokenID string, rec Record, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenID string) (Record, error)
	Revoke(ctx context.Context, tokenID string) error
}

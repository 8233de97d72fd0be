package domain

import (
	"context"
	"time"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashDanger  FlashKind = "danger"
)

// Flash is a one-shot message shown by the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// SessionData is the server-side state referenced by a session cookie.
type SessionData struct {
	Auth     bool   `json:"auth"`
	Username string `json:"username,omitempty"`
	Flash    *Flash `json:"flash,omitempty"`
}

// SessionStore persists session data keyed by session id.
// Get returns ErrNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*SessionData, error)
	Save(ctx context.Context, id string, data *SessionData, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

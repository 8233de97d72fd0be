// Package session implements cookie-referenced server-side sessions.
//
// A Session is loaded once per request by Manager.LoadAndSave, carried in the
// request context, and written back to its Store just before the response
// header goes out. The cookie holds only a signed reference to the session id.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/msomdec/snippet-board/internal/domain"
)

type contextKey struct{}

// Session is the per-request view of a client's session state.
type Session struct {
	mu sync.Mutex

	id    string
	data  domain.SessionData
	isNew bool

	// staleID is the identity replaced by Regenerate, deleted on commit.
	staleID   string
	modified  bool
	destroyed bool
}

func newSession() (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	return &Session{id: id, isNew: true}, nil
}

func newID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FromContext returns the session attached by Manager.LoadAndSave, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Auth reports whether a login succeeded in this session.
func (s *Session) Auth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Auth
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Username
}

// Login marks the session as authenticated for username.
func (s *Session) Login(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Auth = true
	s.data.Username = username
	s.modified = true
}

// SetFlash stores a message for the next rendered page, replacing any pending one.
func (s *Session) SetFlash(kind domain.FlashKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Flash = &domain.Flash{Kind: kind, Message: message}
	s.modified = true
}

// PopFlash returns the pending flash and clears it.
func (s *Session) PopFlash() *domain.Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.data.Flash
	if f != nil {
		s.data.Flash = nil
		s.modified = true
	}
	return f
}

// Regenerate gives the session a fresh identity while keeping its data.
// The previous identity is removed from the store when the session commits.
func (s *Session) Regenerate() error {
	id, err := newID()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staleID == "" && !s.isNew {
		s.staleID = s.id
	}
	s.id = id
	s.modified = true
	return nil
}

// Destroy discards the session. It is deleted from the store on commit and
// the client cookie is expired.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = domain.SessionData{}
	s.destroyed = true
}

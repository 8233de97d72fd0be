package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/snippet-board/internal/domain"
)

const CookieName = "snippet_sid"

// Manager loads and commits sessions and owns the session cookie.
type Manager struct {
	store  domain.SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a Manager. secret signs the session cookie.
func NewManager(store domain.SessionStore, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// LoadAndSave attaches the client's session to the request context and
// commits it before the response header is written.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.load(r)
		if err != nil {
			slog.Error("load session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx := NewContext(r.Context(), sess)
		sw := &commitWriter{ResponseWriter: w}
		sw.commit = func() {
			if err := m.commit(ctx, w, sess); err != nil {
				slog.Error("commit session", "error", err)
			}
		}

		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.commitOnce()
	})
}

func (m *Manager) load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return newSession()
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		return newSession()
	}

	data, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return newSession()
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &Session{id: id, data: *data}, nil
}

func (m *Manager) commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		if !s.isNew {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		if s.staleID != "" {
			if err := m.store.Delete(ctx, s.staleID); err != nil {
				return fmt.Errorf("delete stale session: %w", err)
			}
		}
		http.SetCookie(w, m.cookie("", -1))
		return nil
	}

	if s.staleID != "" {
		if err := m.store.Delete(ctx, s.staleID); err != nil {
			return fmt.Errorf("delete stale session: %w", err)
		}
		s.staleID = ""
	}

	if !s.modified {
		return nil
	}

	expiresAt := m.now().Add(m.ttl)
	if err := m.store.Save(ctx, s.id, &s.data, expiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	token, err := m.signToken(s.id, expiresAt)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
	s.isNew = false
	s.modified = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func (m *Manager) signToken(id string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseToken(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie has no id")
	}
	return claims.ID, nil
}

// Sweeper is implemented by stores that need explicit expiry cleanup.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// RunJanitor removes expired sessions every interval until ctx is done.
// It returns immediately if the store expires entries on its own.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	sweeper, ok := m.store.(Sweeper)
	if !ok {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				slog.Error("delete expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

// commitWriter commits the session the first time the header is written.
type commitWriter struct {
	http.ResponseWriter
	commit func()
	once   sync.Once
}

func (w *commitWriter) commitOnce() { w.once.Do(w.commit) }

func (w *commitWriter) WriteHeader(code int) {
	w.commitOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) Flush() {
	w.commitOnce()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *commitWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (w *commitWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

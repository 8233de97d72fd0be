package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/session"
	"github.com/msomdec/snippet-board/internal/view"
)

const (
	msgUserCreated     = "The user was created successfully."
	msgUserNotCreated  = "Could not create user, pick another username."
	msgInvalidLogin    = "Invalid login attempt."
	msgTooManyAttempts = "Too many login attempts. Please try again later."
)

// UserHandler handles registration, login and logout.
type UserHandler struct {
	auth    *service.AuthService
	limiter *service.TokenBucket
}

// NewUserHandler creates a new UserHandler. limiter may be nil.
func NewUserHandler(auth *service.AuthService, limiter *service.TokenBucket) *UserHandler {
	return &UserHandler{auth: auth, limiter: limiter}
}

type credentialsRequest struct {
	Username string
	Password string
}

func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	if err := r.ParseForm(); err != nil {
		return credentialsRequest{}, err
	}
	return credentialsRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}

func (h *UserHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.Register(newPage(r)))
}

// HandleRegister creates a user. Every failure gets the same message so the
// form does not reveal which rule was broken or which usernames exist.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest)
		return
	}

	performWrite(w, r, writeAction{
		Op: "register user",
		Do: func(ctx context.Context) error {
			_, err := h.auth.Register(ctx, req.Username, req.Password)
			return err
		},
		Success:   msgUserCreated,
		SuccessTo: "/users/login",
		Failure:   msgUserNotCreated,
		FailureTo: "/users/register",
	})
}

func (h *UserHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.Login(newPage(r)))
}

// HandleLogin checks the credentials and, on success, gives the session a
// new identity before marking it authenticated.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest)
		return
	}

	ip := clientIP(r)
	if h.limiter != nil && !h.limiter.Allow(ip) {
		slog.Warn("login rate limited", "ip", ip)
		redirectWithFlash(w, r, domain.FlashDanger, msgTooManyAttempts, "/users/login")
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidLogin) {
			slog.Error("authenticate user", "error", err)
		}
		redirectWithFlash(w, r, domain.FlashDanger, msgInvalidLogin, "/users/login")
		return
	}

	s := session.FromContext(r.Context())
	if err := s.Regenerate(); err != nil {
		slog.Error("regenerate session", "error", err)
		renderError(w, r, http.StatusInternalServerError)
		return
	}
	s.Login(user.Username)
	if h.limiter != nil {
		h.limiter.Reset(ip)
	}

	http.Redirect(w, r, "/snippets/create", http.StatusSeeOther)
}

// HandleLogout destroys an authenticated session. There is nothing to log
// out of otherwise, so anonymous requests get a 404.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if !s.Auth() {
		renderError(w, r, http.StatusNotFound)
		return
	}
	s.Destroy()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

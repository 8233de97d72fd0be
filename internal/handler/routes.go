package handler

import (
	"net/http"

	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/session"
)

// RegisterRoutes sets up all HTTP routes on the given mux. loginLimiter may
// be nil to disable login throttling.
func RegisterRoutes(mux *http.ServeMux, db Pinger, auth *service.AuthService, snippets *service.SnippetService, loginLimiter *service.TokenBucket) {
	users := NewUserHandler(auth, loginLimiter)
	sh := NewSnippetHandler(snippets)

	mux.HandleFunc("GET /healthz", HandleHealthz(db))
	mux.HandleFunc("GET /{$}", HandleHome)
	mux.HandleFunc("/", HandleNotFound)

	mux.HandleFunc("GET /users", users.HandleLoginPage)
	mux.HandleFunc("GET /users/register", users.HandleRegisterPage)
	mux.HandleFunc("POST /users/register", users.HandleRegister)
	mux.HandleFunc("GET /users/login", users.HandleLoginPage)
	mux.HandleFunc("POST /users/login", users.HandleLogin)
	mux.HandleFunc("GET /users/logout", users.HandleLogout)

	mux.HandleFunc("GET /snippets", sh.HandleList)
	mux.HandleFunc("GET /snippets/create", sh.HandleCreatePage)
	mux.HandleFunc("POST /snippets/create", sh.HandleCreate)
	mux.HandleFunc("GET /snippets/{id}", sh.HandleView)
	mux.Handle("GET /snippets/{id}/update", sh.RequireAuthor(sh.HandleUpdatePage))
	mux.Handle("POST /snippets/{id}/update", sh.RequireAuthor(sh.HandleUpdate))
	mux.Handle("GET /snippets/{id}/delete", sh.RequireAuthor(sh.HandleDeletePage))
	mux.Handle("POST /snippets/{id}/delete", sh.RequireAuthor(sh.HandleDelete))
	mux.Handle("POST /snippets/{id}/done", sh.RequireAuthor(sh.HandleToggleDone))
}

// Wrap applies the application middleware to mux. metrics may be nil.
func Wrap(mux *http.ServeMux, sessions *session.Manager, metrics *Metrics) http.Handler {
	var h http.Handler = sessions.LoadAndSave(mux)
	h = LogRequests(h)
	if metrics != nil {
		h = metrics.Instrument(mux, h)
	}
	return SecurityHeaders(h)
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/session"
	"github.com/msomdec/snippet-board/internal/view"
)

// newPage builds the page chrome for r and consumes the pending flash.
func newPage(r *http.Request) view.Page {
	s := session.FromContext(r.Context())
	if s == nil {
		return view.Page{}
	}
	return view.Page{
		Username: s.Username(),
		LoggedIn: s.Auth(),
		Flash:    s.PopFlash(),
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

// redirectWithFlash stores a flash for the next page and sends the client there.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, kind domain.FlashKind, message, to string) {
	if s := session.FromContext(r.Context()); s != nil {
		s.SetFlash(kind, message)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/session"
	"github.com/msomdec/snippet-board/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	msgSnippetCreated = "The snippet was created successfully."
	msgSnippetUpdated = "The snippet was updated successfully."
	msgSnippetDeleted = "The snippet was deleted successfully."
)

// SnippetHandler handles snippet HTTP requests.
type SnippetHandler struct {
	snippets *service.SnippetService
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService) *SnippetHandler {
	return &SnippetHandler{snippets: snippets}
}

type snippetRequest struct {
	Description string
	Done        bool
}

func decodeSnippet(r *http.Request) (snippetRequest, error) {
	if err := r.ParseForm(); err != nil {
		return snippetRequest{}, err
	}
	done := r.PostFormValue("done")
	return snippetRequest{
		Description: r.PostFormValue("description"),
		Done:        done == "true" || done == "on",
	}, nil
}

// authoredHandler is a handler behind RequireAuthor. snippet is nil when the
// snippet no longer exists.
type authoredHandler func(w http.ResponseWriter, r *http.Request, snippet *domain.Snippet)

// RequireAuthor lets the request through only when the session user wrote
// the snippet named by the {id} path value. Anonymous callers get 404 and
// other users 403.
func (h *SnippetHandler) RequireAuthor(next authoredHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		snippet, err := h.snippets.Authorize(r.Context(), r.PathValue("id"), s.Auth(), s.Username())
		if err != nil {
			handleError(w, r, "authorize snippet", err)
			return
		}
		next(w, r, snippet)
	})
}

// HandleList renders every snippet, newest first.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.List(r.Context())
	if err != nil {
		handleError(w, r, "list snippets", err)
		return
	}

	s := session.FromContext(r.Context())
	rows := make([]view.SnippetItem, 0, len(snippets))
	for _, sn := range snippets {
		rows = append(rows, itemFor(s, sn))
	}
	render(w, r, http.StatusOK, view.SnippetList(newPage(r), rows))
}

func (h *SnippetHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		redirectWithFlash(w, r, domain.FlashDanger, userMessage("get snippet", err), "/snippets")
		return
	}

	item := itemFor(session.FromContext(r.Context()), *snippet)
	render(w, r, http.StatusOK, view.SnippetView(newPage(r), *snippet, item.CanEdit))
}

// HandleCreatePage renders the create form. Anyone may see it; only the
// POST requires a login.
func (h *SnippetHandler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.SnippetCreate(newPage(r)))
}

func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if !s.Auth() {
		renderError(w, r, http.StatusNotFound)
		return
	}

	req, err := decodeSnippet(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest)
		return
	}

	author := s.Username()
	performWrite(w, r, writeAction{
		Op: "create snippet",
		Do: func(ctx context.Context) error {
			_, err := h.snippets.Create(ctx, author, req.Description)
			return err
		},
		Success:   msgSnippetCreated,
		SuccessTo: "/snippets",
		FailureTo: "/snippets/create",
	})
}

func (h *SnippetHandler) HandleUpdatePage(w http.ResponseWriter, r *http.Request, snippet *domain.Snippet) {
	if snippet == nil {
		redirectWithFlash(w, r, domain.FlashDanger, userMessage("", domain.ErrNotFound), "/snippets")
		return
	}
	render(w, r, http.StatusOK, view.SnippetUpdate(newPage(r), *snippet))
}

// HandleUpdate applies an edit. The service re-reads the snippet first; if it
// was deleted in the meantime the client is sent back to the list.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, _ *domain.Snippet) {
	req, err := decodeSnippet(r)
	if err != nil {
		renderError(w, r, http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	performWrite(w, r, writeAction{
		Op: "update snippet",
		Do: func(ctx context.Context) error {
			_, err := h.snippets.Update(ctx, id, req.Description, req.Done)
			return err
		},
		Success:    msgSnippetUpdated,
		SuccessTo:  "/snippets",
		FailureTo:  "/snippets/" + id + "/update",
		ConflictTo: "/snippets",
	})
}

func (h *SnippetHandler) HandleDeletePage(w http.ResponseWriter, r *http.Request, snippet *domain.Snippet) {
	if snippet == nil {
		redirectWithFlash(w, r, domain.FlashDanger, userMessage("", domain.ErrNotFound), "/snippets")
		return
	}
	render(w, r, http.StatusOK, view.SnippetDelete(newPage(r), *snippet))
}

// HandleDelete removes the snippet. Deleting one that is already gone
// counts as success.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request, _ *domain.Snippet) {
	id := r.PathValue("id")
	performWrite(w, r, writeAction{
		Op:        "delete snippet",
		Do:        func(ctx context.Context) error { return h.snippets.Delete(ctx, id) },
		Success:   msgSnippetDeleted,
		SuccessTo: "/snippets",
		FailureTo: "/snippets/" + id + "/delete",
	})
}

// HandleToggleDone flips the done flag and patches the list row over SSE.
// A snippet deleted meanwhile has its row removed instead.
func (h *SnippetHandler) HandleToggleDone(w http.ResponseWriter, r *http.Request, _ *domain.Snippet) {
	id := r.PathValue("id")
	snippet, err := h.snippets.ToggleDone(r.Context(), id)
	if err != nil && !errors.Is(err, service.ErrSnippetRemoved) {
		slog.Error("toggle snippet", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		sse.RemoveElementByID(view.RowID(id))
		return
	}
	sse.PatchElementTempl(view.SnippetRow(itemFor(session.FromContext(r.Context()), *snippet)))
}

func itemFor(s *session.Session, sn domain.Snippet) view.SnippetItem {
	return view.SnippetItem{
		Snippet:  sn,
		LoggedIn: s.Auth(),
		CanEdit:  s.Auth() && sn.Author == s.Username(),
	}
}

package handler

import (
	"net/http"

	"github.com/msomdec/snippet-board/internal/view"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.Home(newPage(r)))
}

// HandleNotFound renders the 404 page for any request no route matched.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound)
}

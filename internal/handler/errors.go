package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/view"
)

const genericFailure = "Something went wrong. Please try again."

var errorMessages = map[int]string{
	http.StatusBadRequest:          "The request could not be understood.",
	http.StatusForbidden:           "You are not allowed to change this snippet.",
	http.StatusNotFound:            "The page you are looking for does not exist.",
	http.StatusInternalServerError: genericFailure,
}

// renderError renders the error page for status.
func renderError(w http.ResponseWriter, r *http.Request, status int) {
	render(w, r, status, view.ErrorPage(newPage(r), status, errorMessages[status]))
}

// handleError answers a request that cannot continue because of err.
// Not-found and forbidden errors get their status page, anything else is
// logged and reported as a server error.
func handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		renderError(w, r, http.StatusNotFound)
	case domain.KindForbidden:
		renderError(w, r, http.StatusForbidden)
	default:
		slog.Error(op, "error", err)
		renderError(w, r, http.StatusInternalServerError)
	}
}

// userMessage turns err into the text of a danger flash. Only validation
// errors are shown as they are; everything else is logged.
func userMessage(op string, err error) string {
	if errors.Is(err, service.ErrSnippetRemoved) {
		return service.SnippetRemovedMessage
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return sentence(strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": "))
	case domain.KindNotFound:
		return "The snippet could not be found."
	default:
		slog.Error(op, "error", err)
		return genericFailure
	}
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

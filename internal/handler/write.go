package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/snippet-board/internal/domain"
)

// writeAction describes one state-changing request: the write itself and
// where the client goes afterwards.
type writeAction struct {
	// Op names the operation in logs.
	Op string
	Do func(ctx context.Context) error

	Success   string
	SuccessTo string

	// Failure, when set, replaces the message derived from the error.
	Failure   string
	FailureTo string
	// ConflictTo overrides FailureTo for ErrConflict.
	ConflictTo string
}

// performWrite runs a.Do, flashes the outcome and redirects. It is the only
// place the write handlers turn errors into user feedback.
func performWrite(w http.ResponseWriter, r *http.Request, a writeAction) {
	err := a.Do(r.Context())
	if err == nil {
		redirectWithFlash(w, r, domain.FlashSuccess, a.Success, a.SuccessTo)
		return
	}

	to := a.FailureTo
	if a.ConflictTo != "" && errors.Is(err, domain.ErrConflict) {
		to = a.ConflictTo
	}

	msg := a.Failure
	if msg == "" {
		msg = userMessage(a.Op, err)
	} else if domain.KindOf(err) == domain.KindInternal {
		slog.Error(a.Op, "error", err)
	}
	redirectWithFlash(w, r, domain.FlashDanger, msg, to)
}

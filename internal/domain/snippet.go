package domain

import (
	"context"
	"time"
)

// Snippet is a short piece of text owned by the user who created it.
// Author holds the creator's username and never changes after creation.
type Snippet struct {
	ID          string
	Description string
	Author      string
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SnippetRepository defines persistence operations for snippets.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *Snippet) error
	GetByID(ctx context.Context, id string) (*Snippet, error)
	// List returns every snippet, newest first.
	List(ctx context.Context) ([]Snippet, error)
	// Update writes Description and Done. Returns ErrNotFound if the row is gone.
	Update(ctx context.Context, snippet *Snippet) error
	// Delete removes the snippet. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/snippet-board/internal/domain"
)

// ErrSnippetRemoved is returned when a snippet disappears between loading
// the edit form and applying the edit.
var ErrSnippetRemoved = fmt.Errorf("%w: snippet removed", domain.ErrConflict)

const SnippetRemovedMessage = "The snippet you attempted to update was removed by another user after you got the original values."

// SnippetService implements the snippet use cases on top of a repository.
type SnippetService struct {
	snippets domain.SnippetRepository
}

type snippetInput struct {
	Description string `validate:"required,max=5000"`
}

func NewSnippetService(snippets domain.SnippetRepository) *SnippetService {
	return &SnippetService{snippets: snippets}
}

func (s *SnippetService) List(ctx context.Context) ([]domain.Snippet, error) {
	snippets, err := s.snippets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	return snippets, nil
}

func (s *SnippetService) Get(ctx context.Context, id string) (*domain.Snippet, error) {
	return s.snippets.GetByID(ctx, id)
}

// Create stores a new snippet owned by author.
func (s *SnippetService) Create(ctx context.Context, author, description string) (*domain.Snippet, error) {
	in := snippetInput{Description: strings.TrimSpace(description)}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	snippet := &domain.Snippet{Description: in.Description, Author: author}
	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("create snippet: %w", err)
	}
	return snippet, nil
}

// Update re-reads the snippet before writing so that an edit never resurrects
// or silently overwrites a snippet that was deleted meanwhile.
func (s *SnippetService) Update(ctx context.Context, id, description string, done bool) (*domain.Snippet, error) {
	in := snippetInput{Description: strings.TrimSpace(description)}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSnippetRemoved
		}
		return nil, fmt.Errorf("get snippet: %w", err)
	}

	snippet.Description = in.Description
	snippet.Done = done
	return snippet, s.save(ctx, snippet)
}

// ToggleDone flips the done flag with the same re-read guard as Update.
func (s *SnippetService) ToggleDone(ctx context.Context, id string) (*domain.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSnippetRemoved
		}
		return nil, fmt.Errorf("get snippet: %w", err)
	}

	snippet.Done = !snippet.Done
	return snippet, s.save(ctx, snippet)
}

func (s *SnippetService) save(ctx context.Context, snippet *domain.Snippet) error {
	if err := s.snippets.Update(ctx, snippet); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrSnippetRemoved
		}
		return fmt.Errorf("update snippet: %w", err)
	}
	return nil
}

// Delete removes the snippet. A missing id is treated as already deleted.
func (s *SnippetService) Delete(ctx context.Context, id string) error {
	if err := s.snippets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return nil
}

// Authorize reports whether username may modify the snippet with the given id.
// It returns the snippet when the caller is its author, ErrNotFound when the
// caller is anonymous, and ErrForbidden otherwise. For an authenticated
// caller a snippet that no longer exists is not an authorization failure;
// nil is returned and the operation itself decides how to report it.
func (s *SnippetService) Authorize(ctx context.Context, id string, authenticated bool, username string) (*domain.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get snippet: %w", err)
	}

	switch {
	case snippet != nil && authenticated && snippet.Author == username:
		return snippet, nil
	case !authenticated:
		return nil, domain.ErrNotFound
	case snippet == nil:
		return nil, nil
	default:
		return nil, domain.ErrForbidden
	}
}

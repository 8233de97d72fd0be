package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/snippet-board/internal/domain"
)

type SnippetRepository struct {
	db *sql.DB
}

func NewSnippetRepository(db *sql.DB) *SnippetRepository {
	return &SnippetRepository{db: db}
}

func (r *SnippetRepository) Create(ctx context.Context, s *domain.Snippet) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snippets (id, description, author, done, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, s.Description, s.Author, s.Done, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}

	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// GetByID treats ids that are not UUIDs as missing rather than sending
// them to the server, where the cast would fail.
func (r *SnippetRepository) GetByID(ctx context.Context, id string) (*domain.Snippet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	s := &domain.Snippet{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, author, done, created_at, updated_at
		 FROM snippets WHERE id = $1`, id,
	).Scan(&s.ID, &s.Description, &s.Author, &s.Done, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query snippet by id: %w", err)
	}
	return s, nil
}

func (r *SnippetRepository) List(ctx context.Context) ([]domain.Snippet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, author, done, created_at, updated_at
		 FROM snippets ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query snippets: %w", err)
	}
	defer rows.Close()

	var snippets []domain.Snippet
	for rows.Next() {
		var s domain.Snippet
		if err := rows.Scan(&s.ID, &s.Description, &s.Author, &s.Done, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		snippets = append(snippets, s)
	}
	return snippets, rows.Err()
}

func (r *SnippetRepository) Update(ctx context.Context, s *domain.Snippet) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE snippets SET description = $1, done = $2, updated_at = $3 WHERE id = $4`,
		s.Description, s.Done, now, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update snippet: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	s.UpdatedAt = now
	return nil
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return nil
}

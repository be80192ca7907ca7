package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/01moynul/innowood/internal/models"
)

func scanCategory(row rowScanner) (models.Category, error) {
	var (
		c    models.Category
		desc sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &desc, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Category{}, err
	}
	if desc.Valid {
		d := desc.String
		c.Description = &d
	}
	return c, nil
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := "SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, r.q(query))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one category or models.ErrNotFound.
func (r *Repository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	query := "SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?"

	c, err := scanCategory(r.db.QueryRowContext(ctx, r.q(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	return &c, nil
}

// AddCategory inserts a new category.
func (r *Repository) AddCategory(ctx context.Context, input models.CategoryInput) models.Result {
	now := r.now()
	query := `
		INSERT INTO categories
		(id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, r.q(query), r.newID(), input.Name, nullableText(input.Description), now, now); err != nil {
		slog.Error("add category failed", "name", input.Name, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

// UpdateCategory replaces the name and description of a category.
func (r *Repository) UpdateCategory(ctx context.Context, id string, input models.CategoryInput) models.Result {
	query := "UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?"

	if _, err := r.db.ExecContext(ctx, r.q(query), input.Name, nullableText(input.Description), r.now(), id); err != nil {
		slog.Error("update category failed", "id", id, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

// DeleteCategory detaches the category from its products and then deletes it,
// in one transaction. Detached products render as "Uncategorized".
func (r *Repository) DeleteCategory(ctx context.Context, id string) models.Result {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("delete category: begin failed", "id", id, "error", err)
		return models.Failed(err)
	}
	defer tx.Rollback()

	// 1. Nullify references
	detach := "UPDATE products SET category_id = NULL, updated_at = ? WHERE category_id = ?"
	if _, err := tx.ExecContext(ctx, r.q(detach), r.now(), id); err != nil {
		slog.Error("delete category: detach products failed", "id", id, "error", err)
		return models.Failed(err)
	}

	// 2. Delete the category
	if _, err := tx.ExecContext(ctx, r.q("DELETE FROM categories WHERE id = ?"), id); err != nil {
		slog.Error("delete category failed", "id", id, "error", err)
		return models.Failed(err)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("delete category: commit failed", "id", id, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

func nullableText(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

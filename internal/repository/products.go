package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/01moynul/innowood/internal/models"
)

const productColumns = `
	p.id, p.name, p.description, p.price, p.image_urls, p.category_id, p.in_stock,
	p.created_at, p.updated_at,
	c.id, c.name, c.description, c.created_at, c.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads one row selected with productColumns.
func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p          models.Product
		dbImages   []byte
		categoryID sql.NullString
		catID      sql.NullString
		catName    sql.NullString
		catDesc    sql.NullString
		catCreated sql.NullTime
		catUpdated sql.NullTime
	)

	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &dbImages, &categoryID, &p.InStock,
		&p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catDesc, &catCreated, &catUpdated,
	); err != nil {
		return models.Product{}, err
	}

	// Always initialize the image list so it never renders as null
	p.ImageURLs = []string{}
	if len(dbImages) > 0 {
		if err := json.Unmarshal(dbImages, &p.ImageURLs); err != nil {
			return models.Product{}, fmt.Errorf("decode image_urls of %s: %w", p.ID, err)
		}
	}

	if categoryID.Valid {
		id := categoryID.String
		p.CategoryID = &id
	}
	if catID.Valid {
		p.Category = &models.Category{
			ID:        catID.String,
			Name:      catName.String,
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdated.Time,
		}
		if catDesc.Valid {
			desc := catDesc.String
			p.Category.Description = &desc
		}
	}
	return p, nil
}

func encodeImages(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListFilteredProducts returns one page of products, newest first, joined with
// their category, plus the total matching the same filter.
//
// The count and the page are read by two separate queries; a concurrent write
// between them can make Total disagree with the page contents.
// Failures never reach the caller: they are logged and degrade to an empty page.
func (r *Repository) ListFilteredProducts(ctx context.Context, filter models.ProductFilter) models.ProductPage {
	var (
		where strings.Builder
		args  []any
	)
	if filter.CategoryID != "" {
		where.WriteString(" WHERE p.category_id = ?")
		args = append(args, filter.CategoryID)
	}

	// 1. Count
	var total int
	countQuery := "SELECT COUNT(*) FROM products p" + where.String()
	if err := r.db.QueryRowContext(ctx, r.q(countQuery), args...).Scan(&total); err != nil {
		slog.Error("count products failed", "category_id", filter.CategoryID, "error", err)
		return models.EmptyPage()
	}

	// 2. Page
	dataQuery := "SELECT" + productColumns + productFrom + where.String() +
		" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	dataArgs := append(args, filter.PageLimit(), filter.Offset())

	rows, err := r.db.QueryContext(ctx, r.q(dataQuery), dataArgs...)
	if err != nil {
		slog.Error("list products failed", "category_id", filter.CategoryID, "page", filter.Page, "error", err)
		return models.EmptyPage()
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			slog.Error("scan product row failed", "error", err)
			return models.EmptyPage()
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("iterate product rows failed", "error", err)
		return models.EmptyPage()
	}

	return models.ProductPage{Products: products, Total: total}
}

// ListProducts returns every product, newest first, joined with its category.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := "SELECT" + productColumns + productFrom + " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product or models.ErrNotFound.
func (r *Repository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	query := "SELECT" + productColumns + productFrom + " WHERE p.id = ?"

	p, err := scanProduct(r.db.QueryRowContext(ctx, r.q(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// AddProduct inserts a new product.
func (r *Repository) AddProduct(ctx context.Context, input models.NewProductInput) models.Result {
	images, err := encodeImages(input.ImageURLs)
	if err != nil {
		return models.Failed(err)
	}

	now := r.now()
	query := `
		INSERT INTO products
		(id, name, description, price, image_urls, category_id, in_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		r.newID(),
		input.Name,
		input.Description,
		input.Price,
		images,
		nullableID(input.CategoryID),
		input.InStock,
		now,
		now,
	}

	if _, err := r.db.ExecContext(ctx, r.q(query), args...); err != nil {
		slog.Error("add product failed", "name", input.Name, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

// UpdateProduct applies the non-nil fields of patch. updated_at is always bumped.
func (r *Repository) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) models.Result {
	var (
		sets []string
		args []any
	)

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.ImageURLs != nil {
		images, err := encodeImages(patch.ImageURLs)
		if err != nil {
			return models.Failed(err)
		}
		sets = append(sets, "image_urls = ?")
		args = append(args, images)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, nullableID(patch.CategoryID))
	}
	if patch.InStock != nil {
		sets = append(sets, "in_stock = ?")
		args = append(args, *patch.InStock)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	query := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, r.q(query), args...); err != nil {
		slog.Error("update product failed", "id", id, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

// DeleteProduct removes a product. Its stored images are left in the bucket.
func (r *Repository) DeleteProduct(ctx context.Context, id string) models.Result {
	if _, err := r.db.ExecContext(ctx, r.q("DELETE FROM products WHERE id = ?"), id); err != nil {
		slog.Error("delete product failed", "id", id, "error", err)
		return models.Failed(err)
	}
	return models.OK()
}

// nullableID maps nil and empty ids onto SQL NULL.
func nullableID(id *string) any {
	if id == nil || *id == "" {
		return nil
	}
	return *id
}

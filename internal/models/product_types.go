package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UncategorizedLabel is shown for products without a category.
	UncategorizedLabel = "Uncategorized"
	// PlaceholderImage is rendered when a product has no images.
	PlaceholderImage = "/static/placeholder.svg"
)

// Product is the model for the 'products' table.
// ImageURLs is ordered: the first image is the primary/thumbnail image.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURLs   []string        `json:"image_urls" db:"image_urls"` // Stored as a JSON array
	CategoryID  *string         `json:"category_id" db:"category_id"`
	InStock     bool            `json:"in_stock" db:"in_stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Join (not in the table, populated at read time)
	Category *Category `json:"category,omitempty" db:"-"`
}

// CategoryName returns the joined category name or the "Uncategorized" fallback.
func (p Product) CategoryName() string {
	if p.Category != nil && p.Category.Name != "" {
		return p.Category.Name
	}
	return UncategorizedLabel
}

// Thumbnail returns the primary image URL or the placeholder.
func (p Product) Thumbnail() string {
	if len(p.ImageURLs) > 0 && p.ImageURLs[0] != "" {
		return p.ImageURLs[0]
	}
	return PlaceholderImage
}

// NewProductInput is the payload for adding a product.
type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURLs   []string
	CategoryID  *string // nil stores NULL
	InStock     bool
}

// ProductPatch is the payload for updating a product. Nil fields are left unchanged.
// A CategoryID pointing at an empty string clears the category.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURLs   []string // nil leaves images unchanged, empty slice clears them
	CategoryID  *string
	InStock     *bool
}

// ProductFilter selects one page of the storefront listing.
// Zero Page means 1, zero or negative Limit means DefaultPageSize.
type ProductFilter struct {
	CategoryID string
	Page       int
	Limit      int
}

// DefaultPageSize is the storefront page size.
const DefaultPageSize = 12

// Offset is the zero-based row offset of the page: (page-1)*limit.
func (f ProductFilter) Offset() int {
	return (f.page() - 1) * f.limit()
}

// PageLimit is the number of rows per page after defaults.
func (f ProductFilter) PageLimit() int {
	return f.limit()
}

func (f ProductFilter) page() int {
	if f.Page == 0 {
		return 1
	}
	return f.Page
}

func (f ProductFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultPageSize
	}
	return f.Limit
}

// ProductPage is one page of products plus the total matching the filter.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// EmptyPage is the degraded listing result.
func EmptyPage() ProductPage {
	return ProductPage{Products: []Product{}, Total: 0}
}

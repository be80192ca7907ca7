package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/01moynul/innowood/internal/middleware"
	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/staging"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/gin-gonic/gin"
)

// Catalog is the data access layer used by the handlers.
type Catalog interface {
	ListFilteredProducts(ctx context.Context, filter models.ProductFilter) models.ProductPage
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	AddProduct(ctx context.Context, input models.NewProductInput) models.Result
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) models.Result
	DeleteProduct(ctx context.Context, id string) models.Result

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	AddCategory(ctx context.Context, input models.CategoryInput) models.Result
	UpdateCategory(ctx context.Context, id string, input models.CategoryInput) models.Result
	DeleteCategory(ctx context.Context, id string) models.Result

	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// ImageUploader writes product and reference images to the object store.
type ImageUploader interface {
	UploadProductImages(ctx context.Context, files []storage.File) ([]string, error)
	UploadReferenceImage(ctx context.Context, f storage.File) (string, error)
}

// SessionManager signs the admin in and out.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, token string) error
}

// Describer drafts product descriptions.
type Describer interface {
	Draft(ctx context.Context, name, category string) (string, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog  Catalog
	Uploader ImageUploader
	Sessions SessionManager
	Staging  *staging.Registry
	// Describer is nil when description drafting is not configured.
	Describer   Describer
	ChatBaseURL string
	Cookie      middleware.CookieOptions
}

// render writes an HTML page. Pages share the "head" partial, which reads Title, Admin and Alert.
func render(c *gin.Context, status int, page string, data gin.H) {
	if _, ok := data["Alert"]; !ok {
		data["Alert"] = ""
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	if _, ok := data["Admin"]; !ok {
		data["Admin"] = false
	}
	c.HTML(status, page, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error", gin.H{"Title": message, "Message": message})
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// loadCategories degrades a read failure to an empty list.
func (h *Handlers) loadCategories(ctx context.Context) []models.Category {
	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		return []models.Category{}
	}
	return categories
}

func redirectSeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- Inputs ---

// ProductDraft is the product form as posted, before validation.
// It is also what the form is re-rendered from.
type ProductDraft struct {
	ID          string   `form:"id"`
	Name        string   `form:"name"`
	Description string   `form:"description"`
	Price       string   `form:"price"`
	CategoryID  string   `form:"category_id"`
	InStock     bool     `form:"in_stock"`
	Previews    []string `form:"previews"`
	Remove      string   `form:"remove"`
}

// ProductInput enforces the constraints the form declares.
type ProductInput struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price" binding:"required,numeric"`
	CategoryID  string `form:"category_id" binding:"required"`
	InStock     bool   `form:"in_stock"`
}

type formImage struct {
	URL    string
	Staged bool
}

// --- Pages ---

// ProductsPage handles GET /admin/products
func (h *Handlers) ProductsPage(c *gin.Context) {
	h.renderProducts(c, http.StatusOK, "")
}

func (h *Handlers) renderProducts(c *gin.Context, status int, alert string) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		slog.Error("list products failed", "error", err)
		products = []models.Product{}
		if alert == "" {
			alert = "Failed to load products"
		}
	}
	render(c, status, "products", gin.H{
		"Title":    "Products",
		"Admin":    true,
		"Products": products,
		"Alert":    alert,
	})
}

// NewProductPage handles GET /admin/products/new
func (h *Handlers) NewProductPage(c *gin.Context) {
	images := view.NewImageDraft(nil, h.Staging)
	h.renderProductForm(c, http.StatusOK, ProductDraft{InStock: true}, images, "")
}

// EditProductPage handles GET /admin/products/:id/edit
func (h *Handlers) EditProductPage(c *gin.Context) {
	product, ok := h.adminProductOr404(c, c.Param("id"))
	if !ok {
		return
	}

	draft := ProductDraft{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		InStock:     product.InStock,
	}
	if product.CategoryID != nil {
		draft.CategoryID = *product.CategoryID
	}

	images := view.NewImageDraft(product.ImageURLs, h.Staging)
	h.renderProductForm(c, http.StatusOK, draft, images, "")
}

func (h *Handlers) renderProductForm(c *gin.Context, status int, draft ProductDraft, images *view.ImageDraft, alert string) {
	staged := images.Staged()
	list := []formImage{}
	for _, url := range images.Previews() {
		list = append(list, formImage{URL: url, Staged: slices.Contains(staged, url)})
	}

	action := "/admin/products"
	title := "Add Product"
	if draft.ID != "" {
		action = "/admin/products/" + draft.ID
		title = "Edit Product"
	}

	render(c, status, "product_form", gin.H{
		"Title":      title,
		"Admin":      true,
		"ProductID":  draft.ID,
		"Form":       draft,
		"Categories": h.loadCategories(c.Request.Context()),
		"Images":     list,
		"Action":     action,
		"AIEnabled":  h.Describer != nil,
		"Alert":      alert,
	})
}

// bindDraft reads the posted form and rebuilds its image list.
func (h *Handlers) bindDraft(c *gin.Context) (ProductDraft, *view.ImageDraft, bool) {
	var draft ProductDraft
	if err := c.ShouldBind(&draft); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid product form")
		return draft, nil, false
	}
	if id := c.Param("id"); id != "" {
		draft.ID = id
	}

	var original []string
	if draft.ID != "" {
		product, ok := h.adminProductOr404(c, draft.ID)
		if !ok {
			return draft, nil, false
		}
		original = product.ImageURLs
	}

	images := view.NewImageDraft(original, h.Staging)
	images.Restore(draft.Previews)
	return draft, images, true
}

// --- Writes ---

// CreateProduct handles POST /admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	h.saveProduct(c, false)
}

// UpdateProduct handles POST /admin/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	h.saveProduct(c, true)
}

func (h *Handlers) saveProduct(c *gin.Context, update bool) {
	ctx := c.Request.Context()

	// 1. --- Rebuild the form and stage newly chosen files ---
	draft, images, ok := h.bindDraft(c)
	if !ok {
		return
	}
	if update != (draft.ID != "") {
		renderError(c, http.StatusBadRequest, "Invalid product form")
		return
	}
	if err := h.stageUploads(c, images); err != nil {
		h.renderProductForm(c, stagingErrorStatus(err), draft, images, err.Error())
		return
	}

	// 2. --- Validate ---
	var input ProductInput
	if err := c.ShouldBind(&input); err != nil {
		h.renderProductForm(c, http.StatusUnprocessableEntity, draft, images, "Please fill in every required field")
		return
	}
	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		h.renderProductForm(c, http.StatusUnprocessableEntity, draft, images, "Price must be a number of 0 or more")
		return
	}

	// 3. --- Upload staged images ---
	imageURLs, err := h.uploadDraftImages(ctx, images)
	if err != nil {
		slog.Error("upload product images failed", "error", err)
		h.renderProductForm(c, http.StatusInternalServerError, draft, images, "Failed to upload images")
		return
	}

	// 4. --- Persist ---
	var result models.Result
	if !update {
		result = h.Catalog.AddProduct(ctx, models.NewProductInput{
			Name:        input.Name,
			Description: input.Description,
			Price:       price,
			ImageURLs:   imageURLs,
			CategoryID:  &input.CategoryID,
			InStock:     input.InStock,
		})
	} else {
		result = h.Catalog.UpdateProduct(ctx, draft.ID, models.ProductPatch{
			Name:        &input.Name,
			Description: &input.Description,
			Price:       &price,
			ImageURLs:   imageURLs,
			CategoryID:  &input.CategoryID,
			InStock:     &input.InStock,
		})
	}

	if !result.Success {
		verb := "add"
		if update {
			verb = "update"
		}
		h.renderProductForm(c, http.StatusInternalServerError, draft, images, "Failed to "+verb+" product: "+result.Error)
		return
	}

	// 5. --- Release previews and go back to the list ---
	images.Discard()
	redirectSeeOther(c, "/admin/products")
}

// DeleteProduct handles POST /admin/products/:id/delete
func (h *Handlers) DeleteProduct(c *gin.Context) {
	result := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id"))
	if !result.Success {
		h.renderProducts(c, http.StatusInternalServerError, "Failed to delete product: "+result.Error)
		return
	}
	redirectSeeOther(c, "/admin/products")
}

// adminProductOr404 loads a product for the admin form.
func (h *Handlers) adminProductOr404(c *gin.Context, id string) (*models.Product, bool) {
	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			renderError(c, http.StatusNotFound, "Product not found")
			return nil, false
		}
		slog.Error("get product failed", "id", id, "error", err)
		renderError(c, http.StatusInternalServerError, "Failed to load product")
		return nil, false
	}
	return product, true
}

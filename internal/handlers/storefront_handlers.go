package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/view"
	"github.com/gin-gonic/gin"
)

// Storefront handles GET /
// It lists one page of products, optionally filtered by ?category=.
func (h *Handlers) Storefront(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Read the filter. Page numbers below 1 are clamped here.
	filter := models.ProductFilter{
		CategoryID: c.Query("category"),
		Page:       max(queryInt(c, "page", 1), 1),
		Limit:      models.DefaultPageSize,
	}

	// 2. Load the page and the category pills
	page := h.Catalog.ListFilteredProducts(ctx, filter)
	categories := h.loadCategories(ctx)

	render(c, http.StatusOK, "storefront", gin.H{
		"Categories": categories,
		"Selected":   filter.CategoryID,
		"Products":   page.Products,
		"Pagination": view.NewPagination(filter.Page, filter.Limit, page.Total),
	})
}

// ProductDetail handles GET /products/:id
// The carousel position is carried in ?img=.
func (h *Handlers) ProductDetail(c *gin.Context) {
	product, ok := h.productOr404(c)
	if !ok {
		return
	}

	images := product.ImageURLs
	carousel := view.NewCarousel(len(images), queryInt(c, "img", 0))
	image := product.Thumbnail()
	if len(images) > 0 {
		image = images[carousel.Index()]
	}

	render(c, http.StatusOK, "product", gin.H{
		"Title":      product.Name,
		"Product":    product,
		"Carousel":   carousel,
		"Image":      image,
		"AutoHideMS": view.ControlsAutoHide.Milliseconds(),
	})
}

// ProductPreview handles GET /products/:id/preview
// ?index= is the open image, ?key= a keyboard key and ?backdrop=1 a click outside the image.
func (h *Handlers) ProductPreview(c *gin.Context) {
	product, ok := h.productOr404(c)
	if !ok {
		return
	}

	lightbox := view.OpenLightbox(len(product.ImageURLs), queryInt(c, "index", 0))
	if key := c.Query("key"); key != "" {
		lightbox.HandleKey(key)
	}
	if c.Query("backdrop") != "" {
		lightbox.ClickBackdrop()
	}

	if !lightbox.IsOpen() {
		c.Redirect(http.StatusFound, fmt.Sprintf("/products/%s?img=%d", product.ID, lightbox.Index()))
		return
	}

	image := product.Thumbnail()
	if len(product.ImageURLs) > 0 {
		image = product.ImageURLs[lightbox.Index()]
	}

	render(c, http.StatusOK, "preview", gin.H{
		"Title":    product.Name,
		"Product":  product,
		"Lightbox": lightbox,
		"Image":    image,
		"Count":    len(product.ImageURLs),
	})
}

const maxAPIPageSize = 100

// ListProductsAPI handles GET /api/products
func (h *Handlers) ListProductsAPI(c *gin.Context) {
	filter := models.ProductFilter{
		CategoryID: c.Query("category"),
		Page:       max(queryInt(c, "page", 1), 1),
		Limit:      min(queryInt(c, "limit", models.DefaultPageSize), maxAPIPageSize),
	}
	c.JSON(http.StatusOK, h.Catalog.ListFilteredProducts(c.Request.Context(), filter))
}

// ListCategoriesAPI handles GET /api/categories
func (h *Handlers) ListCategoriesAPI(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// productOr404 loads :id or renders the error page.
func (h *Handlers) productOr404(c *gin.Context) (*models.Product, bool) {
	product, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			renderError(c, http.StatusNotFound, "Product not found")
			return nil, false
		}
		slog.Error("get product failed", "id", c.Param("id"), "error", err)
		renderError(c, http.StatusInternalServerError, "Failed to load product")
		return nil, false
	}
	return product, true
}

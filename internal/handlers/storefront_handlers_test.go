package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Tests: GET / ---

func TestStorefront(t *testing.T) {
	testCases := []struct {
		name           string
		target         string
		setup          func(m *mockCatalog)
		expectedFilter models.ProductFilter
		contains       []string
	}{
		{
			name:   "Lists products with category pills",
			target: "/",
			setup: func(m *mockCatalog) {
				m.page = models.ProductPage{Products: []models.Product{*sampleProduct()}, Total: 1}
				m.categories = []models.Category{sampleCategory()}
			},
			expectedFilter: models.ProductFilter{Page: 1, Limit: models.DefaultPageSize},
			contains:       []string{"Oak Keychain", "$9.99", "Letters", "In Stock"},
		},
		{
			name:           "Category and page come from the query",
			target:         "/?category=cat-1&page=2",
			setup:          func(m *mockCatalog) {},
			expectedFilter: models.ProductFilter{CategoryID: "cat-1", Page: 2, Limit: models.DefaultPageSize},
			contains:       []string{"No products found."},
		},
		{
			name:           "Page below 1 is clamped",
			target:         "/?page=-3",
			setup:          func(m *mockCatalog) {},
			expectedFilter: models.ProductFilter{Page: 1, Limit: models.DefaultPageSize},
		},
		{
			name:   "Category failure still renders the listing",
			target: "/",
			setup: func(m *mockCatalog) {
				m.categoriesErr = errBoom
				m.page = models.ProductPage{Products: []models.Product{*sampleProduct()}, Total: 1}
			},
			expectedFilter: models.ProductFilter{Page: 1, Limit: models.DefaultPageSize},
			contains:       []string{"Oak Keychain"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			tc.setup(env.catalog)

			rec := env.get(tc.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.expectedFilter, env.catalog.lastFilter)
			for _, s := range tc.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestStorefront_Pagination(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.page = models.ProductPage{Products: []models.Product{*sampleProduct()}, Total: 30}

	rec := env.get("/?page=2")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "page=1")
	assert.Contains(t, body, "page=3")
	assert.Contains(t, body, "Previous")
	assert.Contains(t, body, "Next")
}

// --- Tests: GET /products/:id ---

func TestProductDetail(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.products["prod-1"] = sampleProduct()

	rec := env.get("/products/prod-1?img=1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `src="https://cdn.example.com/b.png"`)
	assert.Contains(t, body, "2 / 3")
	assert.Contains(t, body, "?img=0")
	assert.Contains(t, body, "?img=2")
	assert.Contains(t, body, `data-autohide-ms="3000"`)
}

func TestProductDetail_IndexWraps(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.products["prod-1"] = sampleProduct()

	rec := env.get("/products/prod-1?img=-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="https://cdn.example.com/c.png"`)
}

func TestProductDetail_NoImagesUsesPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	p := sampleProduct()
	p.ImageURLs = nil
	env.catalog.products["prod-1"] = p

	rec := env.get("/products/prod-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.PlaceholderImage)
	assert.NotContains(t, rec.Body.String(), "aria-label=\"Next image\"")
}

func TestProductDetail_Errors(t *testing.T) {
	t.Run("Unknown product", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.get("/products/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Product not found")
	})

	t.Run("Store failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.getErr = errBoom
		rec := env.get("/products/prod-1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to load product")
	})
}

// --- Tests: GET /products/:id/preview ---

func TestProductPreview(t *testing.T) {
	testCases := []struct {
		name             string
		target           string
		expectedStatus   int
		expectedLocation string
		expectedImage    string
	}{
		{"Opens on the requested image", "/products/prod-1/preview?index=2", http.StatusOK, "", "c.png"},
		{"ArrowRight moves forward", "/products/prod-1/preview?index=0&key=ArrowRight", http.StatusOK, "", "b.png"},
		{"ArrowLeft wraps backwards", "/products/prod-1/preview?index=0&key=ArrowLeft", http.StatusOK, "", "c.png"},
		{"Escape closes back to the detail page", "/products/prod-1/preview?index=1&key=Escape", http.StatusFound, "/products/prod-1?img=1", ""},
		{"Backdrop click closes", "/products/prod-1/preview?index=2&backdrop=1", http.StatusFound, "/products/prod-1?img=2", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.catalog.products["prod-1"] = sampleProduct()

			rec := env.get(tc.target)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rec.Header().Get("Location"))
			}
			if tc.expectedImage != "" {
				assert.Contains(t, rec.Body.String(), `src="https://cdn.example.com/`+tc.expectedImage+`"`)
			}
		})
	}
}

// --- Tests: GET /staged/:id ---

func TestStagedFile(t *testing.T) {
	env := newTestEnv(t)
	url := env.stage(t, storage.File{Name: "a.png", ContentType: "image/png", Data: pngBytes})

	rec := env.get(url)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	env.staging.Release(url)
	assert.Equal(t, http.StatusNotFound, env.get(url).Code)
}

// --- Tests: JSON API ---

func TestListProductsAPI(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.page = models.ProductPage{Products: []models.Product{*sampleProduct()}, Total: 1}

	rec := env.get("/api/products?category=cat-1&page=0&limit=500")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ProductFilter{CategoryID: "cat-1", Page: 1, Limit: 100}, env.catalog.lastFilter)

	var page models.ProductPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Oak Keychain", page.Products[0].Name)
	assert.Equal(t, "9.99", page.Products[0].Price.StringFixed(2))
}

func TestListCategoriesAPI(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.categories = []models.Category{sampleCategory()}

		rec := env.get("/api/categories")

		require.Equal(t, http.StatusOK, rec.Code)
		var categories []models.Category
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&categories))
		require.Len(t, categories, 1)
		assert.Equal(t, "Letters", categories[0].Name)
	})

	t.Run("Store failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.categoriesErr = errBoom

		rec := env.get("/api/categories")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var errResp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, "Failed to fetch categories", errResp["error"])
	})
}

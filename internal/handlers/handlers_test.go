package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/01moynul/innowood/internal/middleware"
	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/staging"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/01moynul/innowood/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// --- Mock Catalog ---

type mockCatalog struct {
	page       models.ProductPage
	lastFilter models.ProductFilter

	products    map[string]*models.Product
	productList []models.Product
	listErr     error
	getErr      error

	addResult    models.Result
	updateResult models.Result
	deleteResult models.Result
	lastAdd      *models.NewProductInput
	lastUpdateID string
	lastPatch    *models.ProductPatch
	deletedIDs   []string

	categories     []models.Category
	categoriesErr  error
	categoryResult models.Result
	lastCategory   *models.CategoryInput
	lastCategoryID string

	stats    models.DashboardStats
	statsErr error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		page:           models.EmptyPage(),
		products:       map[string]*models.Product{},
		addResult:      models.OK(),
		updateResult:   models.OK(),
		deleteResult:   models.OK(),
		categoryResult: models.OK(),
	}
}

func (m *mockCatalog) ListFilteredProducts(_ context.Context, filter models.ProductFilter) models.ProductPage {
	m.lastFilter = filter
	return m.page
}

func (m *mockCatalog) ListProducts(context.Context) ([]models.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.productList, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) AddProduct(_ context.Context, input models.NewProductInput) models.Result {
	m.lastAdd = &input
	return m.addResult
}

func (m *mockCatalog) UpdateProduct(_ context.Context, id string, patch models.ProductPatch) models.Result {
	m.lastUpdateID = id
	m.lastPatch = &patch
	return m.updateResult
}

func (m *mockCatalog) DeleteProduct(_ context.Context, id string) models.Result {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteResult
}

func (m *mockCatalog) ListCategories(context.Context) ([]models.Category, error) {
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	return m.categories, nil
}

func (m *mockCatalog) GetCategory(_ context.Context, id string) (*models.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return &m.categories[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockCatalog) AddCategory(_ context.Context, input models.CategoryInput) models.Result {
	m.lastCategory = &input
	return m.categoryResult
}

func (m *mockCatalog) UpdateCategory(_ context.Context, id string, input models.CategoryInput) models.Result {
	m.lastCategoryID = id
	m.lastCategory = &input
	return m.categoryResult
}

func (m *mockCatalog) DeleteCategory(_ context.Context, id string) models.Result {
	m.lastCategoryID = id
	return m.categoryResult
}

func (m *mockCatalog) DashboardStats(context.Context) (models.DashboardStats, error) {
	return m.stats, m.statsErr
}

// --- Mock Uploader ---

type mockUploader struct {
	productFiles []storage.File
	productURLs  []string
	productErr   error

	referenceFile *storage.File
	referenceURL  string
	referenceErr  error
}

func (m *mockUploader) UploadProductImages(_ context.Context, files []storage.File) ([]string, error) {
	m.productFiles = append(m.productFiles, files...)
	if m.productErr != nil {
		return nil, m.productErr
	}
	return m.productURLs, nil
}

func (m *mockUploader) UploadReferenceImage(_ context.Context, f storage.File) (string, error) {
	m.referenceFile = &f
	if m.referenceErr != nil {
		return "", m.referenceErr
	}
	return m.referenceURL, nil
}

// --- Mock Sessions ---

type mockSessions struct {
	token     string
	signInErr error
	signedOut []string
}

func (m *mockSessions) SignIn(context.Context, string, string) (string, error) {
	return m.token, m.signInErr
}

func (m *mockSessions) SignOut(_ context.Context, token string) error {
	m.signedOut = append(m.signedOut, token)
	return nil
}

// --- Mock Describer ---

type mockDescriber struct {
	text string
	err  error
}

func (m *mockDescriber) Draft(context.Context, string, string) (string, error) {
	return m.text, m.err
}

// --- Fixtures ---

const testChatBase = "https://t.me/innowood"

var errBoom = errors.New("boom")

// pngBytes is enough of a PNG header for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

const testStagingBudget = 1 << 20

type testEnv struct {
	h        *Handlers
	catalog  *mockCatalog
	uploader *mockUploader
	sessions *mockSessions
	staging  *staging.Registry
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		catalog:  newMockCatalog(),
		uploader: &mockUploader{},
		sessions: &mockSessions{},
		staging:  staging.NewRegistry(testStagingBudget),
	}
	env.h = &Handlers{
		Catalog:     env.catalog,
		Uploader:    env.uploader,
		Sessions:    env.sessions,
		Staging:     env.staging,
		ChatBaseURL: testChatBase,
		Cookie:      middleware.CookieOptions{TTL: time.Hour},
	}
	env.router = newTestRouter(t, env.h)
	return env
}

func newTestRouter(t *testing.T, h *Handlers) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Storefront)
	r.GET("/products/:id", h.ProductDetail)
	r.GET("/products/:id/preview", h.ProductPreview)
	r.GET("/products/:id/order", h.OrderDialog)
	r.POST("/products/:id/order", h.SubmitOrderDialog)
	r.GET("/staged/:id", h.StagedFile)
	r.GET("/api/products", h.ListProductsAPI)
	r.GET("/api/categories", h.ListCategoriesAPI)

	r.GET("/admin/login", h.LoginPage)
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)
	r.GET("/admin/dashboard", h.Dashboard)
	r.GET("/admin/products", h.ProductsPage)
	r.GET("/admin/products/new", h.NewProductPage)
	r.GET("/admin/products/:id/edit", h.EditProductPage)
	r.POST("/admin/products", h.CreateProduct)
	r.POST("/admin/products/stage", h.StageProductImages)
	r.POST("/admin/products/cancel", h.CancelProductForm)
	r.POST("/admin/products/describe", h.DescribeProduct)
	r.POST("/admin/products/:id", h.UpdateProduct)
	r.POST("/admin/products/:id/delete", h.DeleteProduct)
	r.GET("/admin/categories", h.CategoriesPage)
	r.POST("/admin/categories", h.CreateCategory)
	r.POST("/admin/categories/:id", h.UpdateCategory)
	r.POST("/admin/categories/:id/delete", h.DeleteCategory)
	return r
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(target string) *httptest.ResponseRecorder {
	return env.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (env *testEnv) postForm(target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(req)
}

type upload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func (env *testEnv) postMultipart(t *testing.T, target string, values url.Values, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vs := range values {
		for _, v := range vs {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return env.do(req)
}

func pngUpload(field, name string) upload {
	return upload{field: field, name: name, contentType: "image/png", data: pngBytes}
}

func sampleCategory() models.Category {
	desc := "Hand-cut initials"
	return models.Category{ID: "cat-1", Name: "Letters", Description: &desc}
}

func sampleProduct() *models.Product {
	category := sampleCategory()
	return &models.Product{
		ID:          "prod-1",
		Name:        "Oak Keychain",
		Description: "Engraved oak",
		Price:       decimal.RequireFromString("9.99"),
		ImageURLs: []string{
			"https://cdn.example.com/a.png",
			"https://cdn.example.com/b.png",
			"https://cdn.example.com/c.png",
		},
		CategoryID: &category.ID,
		Category:   &category,
		InStock:    true,
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (u upload) file() storage.File {
	return storage.File{Name: u.name, ContentType: u.contentType, Data: u.data}
}

// stage puts f into the env's staging registry and returns its preview URL.
func (env *testEnv) stage(t *testing.T, f storage.File) string {
	t.Helper()
	url, err := env.staging.Stage(f)
	require.NoError(t, err)
	return url
}

// limitStaging swaps in a registry holding at most maxBytes.
func (env *testEnv) limitStaging(maxBytes int64) {
	env.staging = staging.NewRegistry(maxBytes)
	env.h.Staging = env.staging
}

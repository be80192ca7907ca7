package routes

import (
	"html/template"
	"net/http"

	"github.com/01moynul/innowood/internal/handlers"
	"github.com/01moynul/innowood/internal/middleware"
	"github.com/01moynul/innowood/internal/web"
	"github.com/gin-gonic/gin"
)

// maxUploadMemory is the multipart memory limit for image forms.
const maxUploadMemory = 32 << 20

// Options are the router dependencies that are not handlers.
type Options struct {
	Sessions   middleware.SessionChecker
	Templates  *template.Template
	UploadsDir string
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = maxUploadMemory
	router.SetHTMLTemplate(opts.Templates)

	// --- APPLY THE ADMIN GATE ---
	// Every request passes through it; static assets are skipped inside.
	router.Use(middleware.AdminGate(opts.Sessions, h.Cookie))

	// --- Static Assets ---
	router.StaticFS("/static", web.Static())
	router.StaticFileFS("/favicon.ico", "favicon.svg", web.Static())
	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	// --- Ping Route ---
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Storefront (Public) ---
	router.GET("/", h.Storefront)
	router.GET("/products/:id", h.ProductDetail)
	router.GET("/products/:id/preview", h.ProductPreview)
	router.GET("/products/:id/order", h.OrderDialog)
	router.POST("/products/:id/order", h.SubmitOrderDialog)
	router.GET("/staged/:id", h.StagedFile)

	api := router.Group("/api")
	{
		api.GET("/products", h.ListProductsAPI)
		api.GET("/categories", h.ListCategoriesAPI)
	}

	// --- Admin (behind the gate) ---
	admin := router.Group("/admin")
	{
		admin.GET("/login", h.LoginPage)
		admin.POST("/login", h.Login)
		admin.POST("/logout", h.Logout)

		admin.GET("", h.Dashboard)
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/products", h.ProductsPage)
		admin.GET("/products/new", h.NewProductPage)
		admin.GET("/products/:id/edit", h.EditProductPage)
		admin.POST("/products", h.CreateProduct)
		admin.POST("/products/stage", h.StageProductImages)
		admin.POST("/products/cancel", h.CancelProductForm)
		admin.POST("/products/describe", h.DescribeProduct)
		admin.POST("/products/:id", h.UpdateProduct)
		admin.POST("/products/:id/delete", h.DeleteProduct)

		admin.GET("/categories", h.CategoriesPage)
		admin.POST("/categories", h.CreateCategory)
		admin.POST("/categories/:id", h.UpdateCategory)
		admin.POST("/categories/:id/delete", h.DeleteCategory)
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title": "Page not found", "Message": "Page not found", "Admin": false, "Alert": "",
		})
	})

	return router
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/01moynul/innowood/internal/models"
	"github.com/gin-gonic/gin"
)

// Dashboard handles GET /admin and GET /admin/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	stats, err := h.Catalog.DashboardStats(c.Request.Context())
	alert := ""
	if err != nil {
		slog.Error("dashboard stats failed", "error", err)
		stats = models.DashboardStats{RecentProducts: []models.Product{}}
		alert = "Failed to load dashboard figures"
	}

	render(c, http.StatusOK, "dashboard", gin.H{
		"Title": "Dashboard",
		"Admin": true,
		"Stats": stats,
		"Alert": alert,
	})
}

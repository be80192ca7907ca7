package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DescribeInput is the body of POST /admin/products/describe.
type DescribeInput struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

// DescribeProduct handles POST /admin/products/describe
func (h *Handlers) DescribeProduct(c *gin.Context) {
	if h.Describer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI description drafting is not configured"})
		return
	}

	var input DescribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.Describer.Draft(c.Request.Context(), input.Name, input.Category)
	if err != nil {
		slog.Error("draft description failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Service unavailable: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/01moynul/innowood/internal/models"
	"github.com/gin-gonic/gin"
)

// CategoryInput is the category form.
type CategoryInput struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

func (in CategoryInput) toModel() models.CategoryInput {
	desc := in.Description
	return models.CategoryInput{Name: in.Name, Description: &desc}
}

// CategoriesPage handles GET /admin/categories
// ?edit=<id> opens the form on an existing category.
func (h *Handlers) CategoriesPage(c *gin.Context) {
	var editing *models.Category
	if id := c.Query("edit"); id != "" {
		category, err := h.Catalog.GetCategory(c.Request.Context(), id)
		switch {
		case err == nil:
			editing = category
		case errors.Is(err, models.ErrNotFound):
		default:
			slog.Error("get category failed", "id", id, "error", err)
		}
	}
	h.renderCategories(c, http.StatusOK, editing, "")
}

func (h *Handlers) renderCategories(c *gin.Context, status int, editing *models.Category, alert string) {
	render(c, status, "categories", gin.H{
		"Title":      "Categories",
		"Admin":      true,
		"Categories": h.loadCategories(c.Request.Context()),
		"Editing":    editing,
		"Alert":      alert,
	})
}

// CreateCategory handles POST /admin/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBind(&input); err != nil {
		h.renderCategories(c, http.StatusUnprocessableEntity, nil, "Category name is required")
		return
	}

	if result := h.Catalog.AddCategory(c.Request.Context(), input.toModel()); !result.Success {
		h.renderCategories(c, http.StatusInternalServerError, nil, "Failed to save category: "+result.Error)
		return
	}
	redirectSeeOther(c, "/admin/categories")
}

// UpdateCategory handles POST /admin/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id := c.Param("id")
	editing := &models.Category{ID: id}

	var input CategoryInput
	if err := c.ShouldBind(&input); err != nil {
		h.renderCategories(c, http.StatusUnprocessableEntity, editing, "Category name is required")
		return
	}
	editing.Name = input.Name
	editing.Description = &input.Description

	if result := h.Catalog.UpdateCategory(c.Request.Context(), id, input.toModel()); !result.Success {
		h.renderCategories(c, http.StatusInternalServerError, editing, "Failed to save category: "+result.Error)
		return
	}
	redirectSeeOther(c, "/admin/categories")
}

// DeleteCategory handles POST /admin/categories/:id/delete
// Products of the category become "Uncategorized".
func (h *Handlers) DeleteCategory(c *gin.Context) {
	if result := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); !result.Success {
		h.renderCategories(c, http.StatusInternalServerError, nil, "Failed to delete category: "+result.Error)
		return
	}
	redirectSeeOther(c, "/admin/categories")
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/01moynul/innowood/internal/storage"
	"github.com/01moynul/innowood/internal/view"
	"github.com/gin-gonic/gin"
)

// OrderForm is the customization dialog posted back on every action.
type OrderForm struct {
	Note       string `form:"note"`
	Quantity   string `form:"qty"`
	Attachment string `form:"attachment"`
	Action     string `form:"action"`
}

// Order dialog actions.
const (
	actionIncrement = "inc"
	actionDecrement = "dec"
	actionAttach    = "attach"
	actionRemove    = "remove"
	actionClose     = "close"
	actionSubmit    = "submit"
)

// OrderDialog handles GET /products/:id/order
// ?qty= and ?note= pre-fill the dialog.
func (h *Handlers) OrderDialog(c *gin.Context) {
	product, ok := h.productOr404(c)
	if !ok {
		return
	}

	dialog := view.NewOrderDialog(*product, h.Staging)
	dialog.Restore(c.Query("note"), queryInt(c, "qty", 1), "")
	if key := c.Query("key"); key != "" {
		dialog.HandleKey(key)
	}
	if !dialog.IsOpen() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.renderOrder(c, http.StatusOK, dialog, "")
}

// SubmitOrderDialog handles POST /products/:id/order
// Every dialog button posts here; "submit" redirects to the chat deep link.
func (h *Handlers) SubmitOrderDialog(c *gin.Context) {
	product, ok := h.productOr404(c)
	if !ok {
		return
	}

	// 1. --- Rebuild the dialog from the form ---
	var form OrderForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid order form")
		return
	}
	qty, err := strconv.Atoi(form.Quantity)
	if err != nil {
		qty = 1
	}
	dialog := view.NewOrderDialog(*product, h.Staging)
	dialog.Restore(form.Note, qty, form.Attachment)

	// 2. --- Apply the action ---
	switch form.Action {
	case actionIncrement:
		dialog.Increment()
	case actionDecrement:
		dialog.Decrement()
	case actionRemove:
		dialog.RemoveAttachment()
	case actionClose:
		dialog.Close()
		redirectSeeOther(c, "/")
		return
	case actionAttach:
		file, err := c.FormFile("reference")
		if err != nil {
			h.renderOrder(c, http.StatusUnprocessableEntity, dialog, "Choose an image to attach")
			return
		}
		f, err := storage.FromMultipart(file)
		if err != nil {
			h.renderOrder(c, http.StatusUnprocessableEntity, dialog, err.Error())
			return
		}
		if err := dialog.Attach(f); err != nil {
			h.renderOrder(c, stagingErrorStatus(err), dialog, err.Error())
			return
		}
	case actionSubmit:
		// A file chosen without pressing "Attach" is still sent along.
		if file, err := c.FormFile("reference"); err == nil {
			f, err := storage.FromMultipart(file)
			if err == nil {
				err = dialog.Attach(f)
			}
			if err != nil {
				h.renderOrder(c, stagingErrorStatus(err), dialog, err.Error())
				return
			}
		} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			slog.Warn("read reference image failed", "error", err)
		}

		link, err := dialog.Submit(c.Request.Context(), h.Uploader, h.ChatBaseURL)
		if err != nil {
			slog.Error("order submit failed", "product_id", product.ID, "error", err)
			h.renderOrder(c, http.StatusInternalServerError, dialog, "Failed to upload reference image. Please try again.")
			return
		}
		slog.Info("order handed off to chat", "product_id", product.ID, "quantity", qty)
		redirectSeeOther(c, link)
		return
	}

	h.renderOrder(c, http.StatusOK, dialog, "")
}

func (h *Handlers) renderOrder(c *gin.Context, status int, dialog *view.OrderDialog, alert string) {
	render(c, status, "order", gin.H{
		"Title":   dialog.Product.Name,
		"Product": dialog.Product,
		"Dialog":  dialog,
		"Alert":   alert,
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/01moynul/innowood/internal/staging"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/01moynul/innowood/internal/view"
	"github.com/gin-gonic/gin"
)

// StagedFile handles GET /staged/:id
// It serves the bytes of a staged (not yet uploaded) image.
func (h *Handlers) StagedFile(c *gin.Context) {
	f, err := h.Staging.Open(staging.URLPrefix + c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// StageProductImages handles POST /admin/products/stage
// It adds chosen files to (or removes one URL from) the form's image list and re-renders the form.
func (h *Handlers) StageProductImages(c *gin.Context) {
	draft, images, ok := h.bindDraft(c)
	if !ok {
		return
	}

	if draft.Remove != "" {
		images.Remove(draft.Remove)
	}
	if err := h.stageUploads(c, images); err != nil {
		h.renderProductForm(c, stagingErrorStatus(err), draft, images, err.Error())
		return
	}

	h.renderProductForm(c, http.StatusOK, draft, images, "")
}

// CancelProductForm handles POST /admin/products/cancel
// It releases every staged preview of the abandoned form.
func (h *Handlers) CancelProductForm(c *gin.Context) {
	_, images, ok := h.bindDraft(c)
	if !ok {
		return
	}
	images.Discard()
	redirectSeeOther(c, "/admin/products")
}

// stagingErrorStatus is 503 when the staging budget is spent and 422 for a rejected file.
func stagingErrorStatus(err error) int {
	if errors.Is(err, staging.ErrFull) {
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}

// stageUploads stages the files of the "images" input.
func (h *Handlers) stageUploads(c *gin.Context, images *view.ImageDraft) error {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	files := []storage.File{}
	for _, fh := range form.File["images"] {
		f, err := storage.FromMultipart(fh)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	return images.Add(files)
}

// uploadDraftImages uploads the staged files and returns the final image list.
func (h *Handlers) uploadDraftImages(ctx context.Context, images *view.ImageDraft) ([]string, error) {
	files, err := images.StagedFiles()
	if err != nil {
		return nil, err
	}
	uploaded := []string{}
	if len(files) > 0 {
		uploaded, err = h.Uploader.UploadProductImages(ctx, files)
		if err != nil {
			return nil, err
		}
	}
	return images.Final(uploaded), nil
}

package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/innowood/internal/models"
	"github.com/01moynul/innowood/internal/order"
	"github.com/01moynul/innowood/internal/storage"
	"github.com/shopspring/decimal"
)

// PreviewStore stages files behind preview URLs until they are released.
type PreviewStore interface {
	Stage(f storage.File) (string, error)
	Open(url string) (storage.File, error)
	Release(url string) bool
	IsStaged(url string) bool
}

// ReferenceUploader stores a customer's reference image.
type ReferenceUploader interface {
	UploadReferenceImage(ctx context.Context, f storage.File) (string, error)
}

// ErrNotImage is returned when an attachment is not an image.
var ErrNotImage = errors.New("only image files can be attached")

// OrderDialog is the customize-and-order dialog of a product.
type OrderDialog struct {
	Product  models.Product
	Note     string
	Quantity int

	attachment     string // preview URL of the attached file
	attachmentName string
	previews       PreviewStore
	open           bool
}

// NewOrderDialog opens an empty dialog with quantity 1.
func NewOrderDialog(p models.Product, previews PreviewStore) *OrderDialog {
	return &OrderDialog{Product: p, Quantity: 1, previews: previews, open: true}
}

// Restore rebuilds dialog state carried between requests. An attachment URL
// that is no longer staged is dropped.
func (d *OrderDialog) Restore(note string, quantity int, attachmentURL string) {
	d.Note = note
	d.SetQuantity(quantity)
	if attachmentURL != "" && d.previews.IsStaged(attachmentURL) {
		d.attachment = attachmentURL
		if f, err := d.previews.Open(attachmentURL); err == nil {
			d.attachmentName = f.Name
		}
	}
}

func (d *OrderDialog) IsOpen() bool { return d.open }

// AttachmentURL is the preview URL of the attached file, or "".
func (d *OrderDialog) AttachmentURL() string { return d.attachment }

// AttachmentName is the original name of the attached file.
func (d *OrderDialog) AttachmentName() string { return d.attachmentName }

// SetQuantity clamps q to at least 1.
func (d *OrderDialog) SetQuantity(q int) {
	d.Quantity = max(q, 1)
}

func (d *OrderDialog) Increment() { d.Quantity++ }

// Decrement never goes below 1.
func (d *OrderDialog) Decrement() { d.SetQuantity(d.Quantity - 1) }

// HandleKey maps ArrowUp, ArrowDown and Escape onto dialog actions.
func (d *OrderDialog) HandleKey(key string) bool {
	switch key {
	case KeyArrowUp:
		d.Increment()
	case KeyArrowDown:
		d.Decrement()
	case KeyEscape:
		d.Close()
	default:
		return false
	}
	return true
}

// Total is price times quantity.
func (d *OrderDialog) Total() decimal.Decimal {
	return d.Product.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Attach stages f as the reference image, releasing any previous attachment.
// When staging fails the previous attachment is kept.
func (d *OrderDialog) Attach(f storage.File) error {
	if !f.IsImage() {
		return ErrNotImage
	}
	url, err := d.previews.Stage(f)
	if err != nil {
		return err
	}
	d.releaseAttachment()
	d.attachment = url
	d.attachmentName = f.Name
	return nil
}

// RemoveAttachment drops and releases the attached file.
func (d *OrderDialog) RemoveAttachment() {
	d.releaseAttachment()
}

// Close dismisses the dialog and releases the attachment.
func (d *OrderDialog) Close() {
	d.releaseAttachment()
	d.open = false
}

func (d *OrderDialog) releaseAttachment() {
	if d.attachment != "" {
		d.previews.Release(d.attachment)
	}
	d.attachment = ""
	d.attachmentName = ""
}

// Submit uploads the attachment when there is one and returns the chat link.
// On upload failure the dialog keeps its state so the customer can retry.
func (d *OrderDialog) Submit(ctx context.Context, uploader ReferenceUploader, chatBaseURL string) (string, error) {
	msg := order.Message{
		ProductName:     d.Product.Name,
		Price:           d.Product.Price,
		Quantity:        d.Quantity,
		CustomText:      d.Note,
		ProductImageURL: firstImage(d.Product),
	}

	// 1. --- Upload the reference image ---
	if d.attachment != "" {
		f, err := d.previews.Open(d.attachment)
		if err != nil {
			return "", fmt.Errorf("attached image expired, please attach it again: %w", err)
		}
		url, err := uploader.UploadReferenceImage(ctx, f)
		if err != nil {
			return "", err
		}
		msg.ReferenceImageURL = url
	}

	// 2. --- Build the link and reset ---
	link := order.ChatLink(chatBaseURL, msg)
	d.Close()
	d.Note = ""
	d.Quantity = 1
	return link, nil
}

func firstImage(p models.Product) string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}

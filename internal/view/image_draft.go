package view

import (
	"fmt"
	"slices"

	"github.com/01moynul/innowood/internal/storage"
)

// ImageDraft is the image list of the admin product form. It starts from
// the saved image URLs of the product being edited; newly chosen files are
// staged and shown through preview URLs until the form is saved.
type ImageDraft struct {
	original []string
	previews []string
	store    PreviewStore
}

// NewImageDraft starts a draft from the product's saved image URLs.
func NewImageDraft(original []string, store PreviewStore) *ImageDraft {
	return &ImageDraft{
		original: slices.Clone(original),
		previews: slices.Clone(original),
		store:    store,
	}
}

// Restore replaces the preview list with the one posted back by the form.
// URLs that are neither saved images nor live staged files are dropped.
func (d *ImageDraft) Restore(previews []string) {
	kept := make([]string, 0, len(previews))
	for _, url := range previews {
		if url == "" || slices.Contains(kept, url) {
			continue
		}
		if d.isOriginal(url) || d.store.IsStaged(url) {
			kept = append(kept, url)
		}
	}
	d.previews = kept
}

func (d *ImageDraft) isOriginal(url string) bool {
	return slices.Contains(d.original, url)
}

// Previews is every URL currently shown in the form.
func (d *ImageDraft) Previews() []string {
	return slices.Clone(d.previews)
}

// Add stages image files and appends their preview URLs. Either every file
// is staged or none is.
func (d *ImageDraft) Add(files []storage.File) error {
	for _, f := range files {
		if !f.IsImage() {
			return fmt.Errorf("%s: %w", f.Name, ErrNotImage)
		}
	}
	staged := make([]string, 0, len(files))
	for _, f := range files {
		url, err := d.store.Stage(f)
		if err != nil {
			for _, u := range staged {
				d.store.Release(u)
			}
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		staged = append(staged, url)
	}
	d.previews = append(d.previews, staged...)
	return nil
}

// Remove takes url out of the preview list. Only staged URLs are released;
// saved images simply drop out of the final list.
func (d *ImageDraft) Remove(url string) {
	i := slices.Index(d.previews, url)
	if i < 0 {
		return
	}
	d.previews = slices.Delete(d.previews, i, i+1)
	if !d.isOriginal(url) {
		d.store.Release(url)
	}
}

// Retained is the saved URLs still shown, in their saved order.
func (d *ImageDraft) Retained() []string {
	out := []string{}
	for _, url := range d.original {
		if slices.Contains(d.previews, url) {
			out = append(out, url)
		}
	}
	return out
}

// Staged is the preview URLs of files not yet uploaded, in display order.
func (d *ImageDraft) Staged() []string {
	out := []string{}
	for _, url := range d.previews {
		if !d.isOriginal(url) {
			out = append(out, url)
		}
	}
	return out
}

// StagedFiles opens the staged files in display order.
func (d *ImageDraft) StagedFiles() ([]storage.File, error) {
	staged := d.Staged()
	files := make([]storage.File, 0, len(staged))
	for _, url := range staged {
		f, err := d.store.Open(url)
		if err != nil {
			return nil, fmt.Errorf("staged image expired, please choose it again: %w", err)
		}
		files = append(files, f)
	}
	return files, nil
}

// Final is the image_urls to save: retained saved URLs followed by the uploaded ones.
func (d *ImageDraft) Final(uploaded []string) []string {
	return append(d.Retained(), uploaded...)
}

// Discard releases every staged preview.
func (d *ImageDraft) Discard() {
	for _, url := range d.Staged() {
		d.store.Release(url)
	}
	d.previews = d.Retained()
}

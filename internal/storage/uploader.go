package storage

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const (
	productPrefix   = "products"
	referencePrefix = "reference-images"
)

// Uploader names and writes product and reference images.
type Uploader struct {
	store  ObjectStore
	now    func() time.Time
	random func() string
}

// NewUploader creates an Uploader on top of an object store.
func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{
		store: store,
		now:   time.Now,
		random: func() string {
			return strconv.FormatUint(rand.Uint64(), 36)
		},
	}
}

// UploadProductImages writes every file concurrently and returns their URLs in input order.
// If one upload fails the whole batch fails and the objects already written are removed.
func (u *Uploader) UploadProductImages(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = ProductImageKey(u.now(), u.random(), f.Name)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := u.store.Put(gctx, keys[i], f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.cleanup(context.WithoutCancel(ctx), keys, urls)
		return nil, err
	}
	return urls, nil
}

func (u *Uploader) cleanup(ctx context.Context, keys, urls []string) {
	for i, url := range urls {
		if url == "" {
			continue
		}
		if err := u.store.Delete(ctx, keys[i]); err != nil {
			slog.Warn("cleanup of partial upload failed", "key", keys[i], "error", err)
		}
	}
}

// UploadReferenceImage writes a customer's reference image and returns its URL.
func (u *Uploader) UploadReferenceImage(ctx context.Context, f File) (string, error) {
	key := ReferenceImageKey(u.now(), f.Name)
	url, err := u.store.Put(ctx, key, f)
	if err != nil {
		return "", fmt.Errorf("upload reference image: %w", err)
	}
	return url, nil
}

// ProductImageKey is products/<unix-millis>_<random>.<ext>.
func ProductImageKey(now time.Time, random, name string) string {
	return fmt.Sprintf("%s/%d_%s.%s", productPrefix, now.UnixMilli(), random, Extension(name))
}

// ReferenceImageKey is reference-images/<unix-millis>-<slug of base name>.<ext>.
func ReferenceImageKey(now time.Time, name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	s := slug.Make(base)
	if s == "" {
		s = "image"
	}
	return fmt.Sprintf("%s/%d-%s.%s", referencePrefix, now.UnixMilli(), s, Extension(name))
}

// Extension is the lower-cased extension of name without the dot, "bin" when absent.
func Extension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "bin"
	}
	return ext
}

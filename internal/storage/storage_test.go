package storage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1718000000123)

// --- Fake store ---

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]File
	failOn  string
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]File{}}
}

func (s *fakeStore) Put(_ context.Context, key string, f File) (string, error) {
	if f.Name == s.failOn {
		return "", errors.New("bucket quota exceeded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = f
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func newTestUploader(store ObjectStore) *Uploader {
	u := NewUploader(store)
	u.now = func() time.Time { return fixedNow }
	n := 0
	var mu sync.Mutex
	u.random = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "r" + string(rune('a'+n-1))
	}
	return u
}

// --- Tests: keys ---

func TestKeys(t *testing.T) {
	assert.Equal(t, "products/1718000000123_k3x9.png", ProductImageKey(fixedNow, "k3x9", "Photo.PNG"))
	assert.Equal(t, "products/1718000000123_k3x9.bin", ProductImageKey(fixedNow, "k3x9", "README"))
	assert.Equal(t, "reference-images/1718000000123-my-sketch.jpeg", ReferenceImageKey(fixedNow, "My Sketch!.JPEG"))
	assert.Equal(t, "reference-images/1718000000123-image.png", ReferenceImageKey(fixedNow, "???.png"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("a.JPG"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "bin", Extension("noext"))
	assert.Equal(t, "bin", Extension(""))
}

// --- Tests: Uploader ---

func TestUploadProductImages(t *testing.T) {
	files := []File{
		{Name: "one.png", ContentType: "image/png", Data: []byte("1")},
		{Name: "two.jpg", ContentType: "image/jpeg", Data: []byte("2")},
		{Name: "three.webp", ContentType: "image/webp", Data: []byte("3")},
	}

	t.Run("Returns URLs in input order", func(t *testing.T) {
		store := newFakeStore()
		u := newTestUploader(store)

		urls, err := u.UploadProductImages(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, urls, 3)
		assert.Equal(t, "https://cdn.test/products/1718000000123_ra.png", urls[0])
		assert.Equal(t, "https://cdn.test/products/1718000000123_rb.jpg", urls[1])
		assert.Equal(t, "https://cdn.test/products/1718000000123_rc.webp", urls[2])
		assert.Len(t, store.objects, 3)
	})

	t.Run("One failure fails the batch", func(t *testing.T) {
		store := newFakeStore()
		store.failOn = "two.jpg"
		u := newTestUploader(store)

		urls, err := u.UploadProductImages(context.Background(), files)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "two.jpg")
		assert.Nil(t, urls)
		assert.Empty(t, store.objects, "written objects are cleaned up")
	})

	t.Run("Empty batch", func(t *testing.T) {
		u := newTestUploader(newFakeStore())
		urls, err := u.UploadProductImages(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, urls)
	})
}

func TestUploadReferenceImage(t *testing.T) {
	store := newFakeStore()
	u := newTestUploader(store)

	url, err := u.UploadReferenceImage(context.Background(), File{Name: "Logo Draft.png", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/reference-images/1718000000123-logo-draft.png", url)

	store.failOn = "bad.png"
	_, err = u.UploadReferenceImage(context.Background(), File{Name: "bad.png"})
	assert.Error(t, err)
}

// --- Tests: LocalStore ---

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "innowood-image", "http://localhost:8080/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "products/1_a.png", File{Data: []byte("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/innowood-image/products/1_a.png", url)

	data, err := os.ReadFile(filepath.Join(root, "innowood-image", "products", "1_a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = store.Put(ctx, "products/1_a.png", File{Data: []byte("other")})
	assert.Error(t, err, "existing keys are never overwritten")

	_, err = store.Put(ctx, "../escape.png", File{})
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, "products/1_a.png"))
	assert.ErrorIs(t, store.Delete(ctx, "products/1_a.png"), ErrObjectNotFound)
}

func TestNewLocalStoreRejectsBadBucket(t *testing.T) {
	_, err := NewLocalStore(t.TempDir(), "a/b", "http://x")
	assert.Error(t, err)
}

// --- Tests: multipart ---

func TestFromMultipart(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("images", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	f, err := FromMultipart(req.MultipartForm.File["images"][0])
	require.NoError(t, err)
	assert.Equal(t, "photo.png", f.Name)
	assert.Equal(t, "image/png", f.ContentType)
	assert.True(t, f.IsImage())
	assert.True(t, strings.HasPrefix(string(f.Data), "\x89PNG"))
}

func TestFromMultipartSniffsUndeclaredTypes(t *testing.T) {
	testCases := []struct {
		name          string
		data          []byte
		expectedImage bool
	}{
		{name: "JPEG", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), expectedImage: true},
		{name: "GIF", data: []byte("GIF89a\x01\x00\x01\x00"), expectedImage: true},
		{name: "Plain text", data: []byte("just some notes"), expectedImage: false},
		{name: "PDF", data: []byte("%PDF-1.7\n"), expectedImage: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			part, err := mw.CreateFormFile("images", "upload.bin")
			require.NoError(t, err)
			_, err = part.Write(tc.data)
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			require.NoError(t, req.ParseMultipartForm(1<<20))

			f, err := FromMultipart(req.MultipartForm.File["images"][0])
			require.NoError(t, err)
			assert.Equal(t, tc.expectedImage, f.IsImage(), f.ContentType)
		})
	}
}

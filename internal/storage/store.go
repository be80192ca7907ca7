// Package storage writes uploaded images to the object store and names them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrObjectNotFound is returned when deleting a key that does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is a bucket of public objects.
type ObjectStore interface {
	// Put writes a new object and returns its public URL. Existing keys are never overwritten.
	Put(ctx context.Context, key string, f File) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps objects on disk under <root>/<bucket>/<key> and serves
// them from <baseURL>/uploads/<bucket>/<key>.
type LocalStore struct {
	root    string
	bucket  string
	baseURL string
}

// NewLocalStore creates the bucket directory when missing.
func NewLocalStore(root, bucket, baseURL string) (*LocalStore, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) {
		return nil, fmt.Errorf("invalid bucket name %q", bucket)
	}
	if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return &LocalStore{root: root, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory served under /uploads.
func (s *LocalStore) Root() string {
	return s.root
}

// URL is the public URL of a key.
func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/uploads/" + s.bucket + "/" + key
}

func (s *LocalStore) pathFor(key string) (string, error) {
	clean := path.Clean(key)
	if key == "" || clean != key || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, s.bucket, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Put(ctx context.Context, key string, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := s.pathFor(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", key, err)
	}

	out, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := out.Write(f.Data); err != nil {
		out.Close()
		os.Remove(p)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	return s.URL(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

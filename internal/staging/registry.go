// Package staging holds uploaded files that are previewed before a form is saved.
package staging

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/01moynul/innowood/internal/storage"
	"github.com/google/uuid"
)

// URLPrefix is the path under which staged files are served.
const URLPrefix = "/staged/"

var (
	// ErrNotStaged is returned by Open for unknown or released preview URLs.
	ErrNotStaged = errors.New("file is not staged")
	// ErrFull is returned by Stage when the file does not fit the byte budget.
	ErrFull = errors.New("too many files are waiting to be saved, please try again later")
)

type entry struct {
	file     storage.File
	stagedAt time.Time
}

// Registry maps preview URLs onto in-memory files. It is safe for concurrent use.
// The staged file contents never exceed maxBytes in total.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]entry
	size     int64
	maxBytes int64
	now      func() time.Time
}

// NewRegistry creates an empty registry holding at most maxBytes of file data.
func NewRegistry(maxBytes int64) *Registry {
	return &Registry{entries: map[string]entry{}, maxBytes: maxBytes, now: time.Now}
}

// Stage keeps f in memory and returns its preview URL.
func (r *Registry) Stage(f storage.File) (string, error) {
	n := int64(len(f.Data))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size+n > r.maxBytes {
		slog.Warn("staging budget exhausted", "staged_bytes", r.size, "file_bytes", n)
		return "", ErrFull
	}
	id := uuid.NewString()
	r.entries[id] = entry{file: f, stagedAt: r.now()}
	r.size += n
	return URLPrefix + id, nil
}

// remove deletes id and returns its bytes to the budget. r.mu must be held.
func (r *Registry) remove(id string) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	delete(r.entries, id)
	r.size -= int64(len(e.file.Data))
	return true
}

func idOf(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(url, URLPrefix)
	return id, id != ""
}

// IsStaged reports whether url is a live preview URL of this registry.
func (r *Registry) IsStaged(url string) bool {
	id, ok := idOf(url)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok = r.entries[id]
	return ok
}

// Open returns the staged file behind a preview URL.
func (r *Registry) Open(url string) (storage.File, error) {
	id, ok := idOf(url)
	if !ok {
		return storage.File{}, ErrNotStaged
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return storage.File{}, ErrNotStaged
	}
	return e.file, nil
}

// Release frees a preview URL. It returns false for remote URLs and for
// URLs that are unknown or were already released.
func (r *Registry) Release(url string) bool {
	id, ok := idOf(url)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id)
}

// ReleaseAll releases every URL in urls and returns how many were freed.
func (r *Registry) ReleaseAll(urls []string) int {
	n := 0
	for _, url := range urls {
		if r.Release(url) {
			n++
		}
	}
	return n
}

// Len is the number of staged files.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Size is the number of bytes held by staged files.
func (r *Registry) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Sweep frees files staged longer than maxAge ago.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.stagedAt.Before(cutoff) && r.remove(id) {
			n++
		}
	}
	return n
}

// RunSweeper sweeps on every tick until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("staging sweeper started", "interval", interval, "max_age", maxAge)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxAge); n > 0 {
				slog.Info("swept abandoned staged files", "count", n)
			}
		}
	}
}

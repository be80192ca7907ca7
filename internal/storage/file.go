package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 10 << 20

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsImage reports whether the file declares an image content type.
func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// FromMultipart reads a multipart form file into memory.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	if fh.Size > MaxImageSize {
		return File{}, fmt.Errorf("%s is larger than %d MB", fh.Filename, MaxImageSize>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if len(data) > MaxImageSize {
		return File{}, fmt.Errorf("%s is larger than %d MB", fh.Filename, MaxImageSize>>20)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return File{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

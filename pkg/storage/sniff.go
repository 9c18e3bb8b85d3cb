package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

// Raster formats only; SVG can carry script.
var rasterTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/heic",
	"image/heif",
}

const fallbackContentType = "application/octet-stream"

// ReadImage reads at most maxBytes from r and checks the content is a raster image.
// It returns the full payload and its detected MIME type.
func ReadImage(r io.Reader, maxBytes int64) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	if !isRaster(mtype) {
		return nil, mtype.String(), ErrNotAnImage
	}
	return data, mtype.String(), nil
}

// ContentType sniffs the first bytes of a stored object for serving. Anything
// that is not an allowed raster type is served as an opaque download.
func ContentType(head []byte) string {
	mtype := mimetype.Detect(head)
	if !isRaster(mtype) {
		return fallbackContentType
	}
	return mtype.String()
}

func isRaster(mtype *mimetype.MIME) bool {
	for _, t := range rasterTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

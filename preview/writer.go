package preview

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// Writer encodes an image.
type Writer func(io.Writer, image.Image) error

// PNGWriter writes the image as a PNG file
func PNGWriter() Writer {
	return func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	}
}

// JPGWriter writes the image as a JPG file
func JPGWriter(opts *jpeg.Options) Writer {
	return func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, opts)
	}
}

// GIFWriter writes the image as a GIF file
func GIFWriter(opts *gif.Options) Writer {
	return func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, opts)
	}
}

// WriterFor returns the writer for the extension of the filename.
func WriterFor(filename string) (Writer, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		return PNGWriter(), nil
	case ".jpg", ".jpeg":
		return JPGWriter(nil), nil
	case ".gif":
		return GIFWriter(nil), nil
	default:
		return nil, fmt.Errorf("unknown image format: %s", ext)
	}
}

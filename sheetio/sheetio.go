// Package sheetio decodes sprite sheet image files into sheet buffers and
// encodes buffers and frame sequences back out as PNG, animated GIF and
// animated PNG.
//
// Decoding accepts whatever image.Decode recognizes; the package registers
// the png, jpeg, gif and bmp codecs, which covers every input format the
// editor and the batch pipeline accept.
package sheetio

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/sheet"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// imageExts are the file extensions batch processing picks up, compared
// case-insensitively.
var imageExts = []string{".png", ".jpg", ".bmp", ".gif"}

// IsImagePath reports whether path has one of the accepted sprite sheet
// extensions.
func IsImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range imageExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode reads one image from r into a buffer.
func Decode(r io.Reader) (*sheet.Buffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}
	b := sheet.FromImage(img)
	glog.V(2).Infof("decoded %s image as %dx%d %v sheet", format, b.W, b.H, b.Mode)
	return b, nil
}

// Open decodes the image file at path into a buffer.
func Open(path string) (*sheet.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sheet %s", path)
	}
	defer f.Close()
	b, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", path)
	}
	return b, nil
}

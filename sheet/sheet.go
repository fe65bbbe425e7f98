package sheet

// This file contains the Buffer type itself and the copy-on-write
// primitives (Clone, Crop, Paste) the structural editors build on.
// Anything related to implementing image.Image and converting from
// the standard library image types lives in image.go.

import (
	"bytes"
	"fmt"
	"image"
)

// Mode selects the channel layout of a Buffer.
type Mode uint8

const (
	// RGB stores three bytes per pixel and has no alpha channel.
	RGB Mode = iota
	// RGBA stores four bytes per pixel, alpha non-premultiplied.
	RGBA
)

// BytesPerPixel returns the per-pixel byte width of the mode.
func (m Mode) BytesPerPixel() int {
	if m == RGB {
		return 3
	}
	return 4
}

func (m Mode) String() string {
	if m == RGB {
		return "RGB"
	}
	return "RGBA"
}

// Buffer is a raw row-major pixel grid.
//
// Pix holds W*H*Mode.BytesPerPixel() bytes; the pixel at (x, y) starts at
// PixOffset(x, y). The zero value is an empty buffer.
type Buffer struct {
	Pix  []uint8
	W, H int
	Mode Mode
}

// New returns a zero-filled (fully transparent, for RGBA) buffer of the
// given size. Negative dimensions are treated as zero.
func New(w, h int, m Mode) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{
		Pix:  make([]uint8, w*h*m.BytesPerPixel()),
		W:    w,
		H:    h,
		Mode: m,
	}
}

// Stride returns the byte width of one pixel row.
func (b *Buffer) Stride() int {
	return b.W * b.Mode.BytesPerPixel()
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.Stride() + x*b.Mode.BytesPerPixel()
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.W == 0 || b.H == 0
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Pix:  make([]uint8, len(b.Pix)),
		W:    b.W,
		H:    b.H,
		Mode: b.Mode,
	}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether two buffers have identical size, mode and bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.W != other.W || b.H != other.H || b.Mode != other.Mode {
		return false
	}
	return bytes.Equal(b.Pix, other.Pix)
}

// Crop returns a copy of the region r. The region is intersected with the
// buffer bounds first, so a partially out-of-range rectangle yields the
// in-range part and a fully out-of-range one yields an empty buffer.
func (b *Buffer) Crop(r image.Rectangle) *Buffer {
	r = r.Intersect(b.Bounds())
	out := New(r.Dx(), r.Dy(), b.Mode)
	if out.Empty() {
		return out
	}
	bpp := b.Mode.BytesPerPixel()
	for y := 0; y < r.Dy(); y++ {
		srcOff := b.PixOffset(r.Min.X, r.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		copy(out.Pix[dstOff:dstOff+r.Dx()*bpp], b.Pix[srcOff:srcOff+r.Dx()*bpp])
	}
	return out
}

// Paste copies src into the buffer with src's origin placed at (x, y).
// Pixels falling outside the destination are discarded. Paste mutates the
// receiver and is meant for buffers under construction; composed buffers
// handed out of an editing operation are not pasted into again.
//
// Paste requires matching channel modes; mixing modes is a programming
// error and reported as such.
func (b *Buffer) Paste(src *Buffer, x, y int) error {
	if src.Empty() {
		return nil
	}
	if src.Mode != b.Mode {
		return fmt.Errorf("sheet: paste mode mismatch: dst %v, src %v", b.Mode, src.Mode)
	}
	dstR := image.Rect(x, y, x+src.W, y+src.H).Intersect(b.Bounds())
	if dstR.Empty() {
		return nil
	}
	bpp := b.Mode.BytesPerPixel()
	for row := 0; row < dstR.Dy(); row++ {
		srcOff := src.PixOffset(dstR.Min.X-x, dstR.Min.Y-y+row)
		dstOff := b.PixOffset(dstR.Min.X, dstR.Min.Y+row)
		copy(b.Pix[dstOff:dstOff+dstR.Dx()*bpp], src.Pix[srcOff:srcOff+dstR.Dx()*bpp])
	}
	return nil
}

package sheet

// This file contains sheet package's functions related to implementing
// image.Image and converting between Buffer and the standard library
// image types. Alpha is kept non-premultiplied throughout, matching what
// the PNG codec stores, so decode→edit→encode round trips are byte exact.

import (
	"image"
	"image/color"
)

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.W, b.H)
}

// At implements image.Image. RGB buffers report full alpha.
func (b *Buffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

// NRGBAAt returns the pixel at (x, y). Out-of-range coordinates yield the
// zero color.
func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return color.NRGBA{}
	}
	i := b.PixOffset(x, y)
	if b.Mode == RGB {
		return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: 0xFF}
	}
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// SetNRGBA writes the pixel at (x, y). Out-of-range coordinates are
// ignored. For RGB buffers the alpha component is discarded.
func (b *Buffer) SetNRGBA(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	i := b.PixOffset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	if b.Mode == RGBA {
		b.Pix[i+3] = c.A
	}
}

// FromImage copies an already decoded image into a Buffer.
//
// NRGBA input maps directly onto an RGBA buffer; a decoder only produces
// NRGBA when the file carries an alpha channel, so the buffer mode follows
// the file's channel layout. Inputs without an alpha channel at all
// (JPEG's YCbCr, grayscale, CMYK) and inputs that report themselves fully
// opaque (truecolor PNG, GIF without a transparent palette slot) become
// RGB buffers. Everything else goes through the generic path into an RGBA
// buffer.
func FromImage(img image.Image) *Buffer {
	switch src := img.(type) {
	case *image.NRGBA:
		return fromNRGBA(src)
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return fromOpaque(img)
	}
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		return fromOpaque(img)
	}
	b := img.Bounds()
	out := New(b.Dx(), b.Dy(), RGBA)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetNRGBA(x, y, color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
	return out
}

func fromNRGBA(src *image.NRGBA) *Buffer {
	r := src.Bounds()
	out := New(r.Dx(), r.Dy(), RGBA)
	for y := 0; y < r.Dy(); y++ {
		srcOff := src.PixOffset(r.Min.X, r.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		copy(out.Pix[dstOff:dstOff+r.Dx()*4], src.Pix[srcOff:srcOff+r.Dx()*4])
	}
	return out
}

func fromOpaque(img image.Image) *Buffer {
	b := img.Bounds()
	out := New(b.Dx(), b.Dy(), RGB)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := out.PixOffset(x, y)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
		}
	}
	return out
}

// NRGBA returns the buffer as *image.NRGBA. For RGBA buffers the returned
// image shares the buffer's pixel storage (a read-only view by the package
// convention); RGB buffers are converted into fresh storage.
func (b *Buffer) NRGBA() *image.NRGBA {
	if b.Mode == RGBA {
		return &image.NRGBA{
			Pix:    b.Pix,
			Stride: b.Stride(),
			Rect:   b.Bounds(),
		}
	}
	out := image.NewNRGBA(b.Bounds())
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			out.SetNRGBA(x, y, b.NRGBAAt(x, y))
		}
	}
	return out
}

// ToRGBA returns a copy of the buffer in RGBA mode. RGB pixels gain an
// opaque alpha channel; an RGBA buffer is simply cloned.
func (b *Buffer) ToRGBA() *Buffer {
	if b.Mode == RGBA {
		return b.Clone()
	}
	out := New(b.W, b.H, RGBA)
	si, di := 0, 0
	for p := 0; p < b.W*b.H; p++ {
		out.Pix[di+0] = b.Pix[si+0]
		out.Pix[di+1] = b.Pix[si+1]
		out.Pix[di+2] = b.Pix[si+2]
		out.Pix[di+3] = 0xFF
		si += 3
		di += 4
	}
	return out
}

// Package sheettest provides assertion helpers and deterministic pixel
// buffer constructors shared by the go-spritesheet package tests.
package sheettest

import (
	"image/color"
	"testing"

	"badc0de.net/pkg/go-spritesheet/sheet"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertTrue(t *testing.T, name string, got bool) {
	t.Run(name, func(t *testing.T) {
		if !got {
			t.Errorf("got false; want true")
		}
	})
}

// AssertBufferEqual compares two buffers byte for byte and reports the
// first differing pixel when they diverge.
func AssertBufferEqual(t *testing.T, name string, got, want *sheet.Buffer) {
	t.Run(name, func(t *testing.T) {
		if got == nil || want == nil {
			if got != want {
				t.Fatalf("got %v; want %v", got, want)
			}
			return
		}
		if got.W != want.W || got.H != want.H || got.Mode != want.Mode {
			t.Fatalf("got %dx%d %v; want %dx%d %v", got.W, got.H, got.Mode, want.W, want.H, want.Mode)
		}
		for y := 0; y < want.H; y++ {
			for x := 0; x < want.W; x++ {
				if g, w := got.NRGBAAt(x, y), want.NRGBAAt(x, y); g != w {
					t.Fatalf("pixel (%d,%d): got %v; want %v", x, y, g, w)
				}
			}
		}
	})
}

// NewPatternBuffer returns a w×h RGBA buffer filled with a deterministic
// per-pixel pattern, so shifted or swapped regions never compare equal by
// accident.
func NewPatternBuffer(w, h int) *sheet.Buffer {
	b := sheet.New(w, h, sheet.RGBA)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := b.PixOffset(x, y)
			b.Pix[i] = uint8((x * 17) ^ (y * 31))
			b.Pix[i+1] = uint8((x * 43) + (y * 13))
			b.Pix[i+2] = uint8((x * 7) ^ (y * 11))
			b.Pix[i+3] = 255
		}
	}
	return b
}

// NewCellIDBuffer returns a buffer whose every cell is filled with a color
// unique to its (col, row), which makes cell reordering visible in tests.
// Cells are cellW×cellH; the buffer is cols*cellW × rows*cellH.
func NewCellIDBuffer(cols, rows, cellW, cellH int) *sheet.Buffer {
	b := sheet.New(cols*cellW, rows*cellH, sheet.RGBA)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := IDColor(col, row)
			for y := row * cellH; y < (row+1)*cellH; y++ {
				for x := col * cellW; x < (col+1)*cellW; x++ {
					i := b.PixOffset(x, y)
					b.Pix[i] = c.R
					b.Pix[i+1] = c.G
					b.Pix[i+2] = c.B
					b.Pix[i+3] = c.A
				}
			}
		}
	}
	return b
}

// IDColor returns the color NewCellIDBuffer fills cell (col, row) with.
func IDColor(col, row int) color.NRGBA {
	return color.NRGBA{
		R: uint8(10 + col*20),
		G: uint8(10 + row*20),
		B: uint8(200 - col*10 - row*10),
		A: 255,
	}
}

// CellColor returns the fill color NewCellIDBuffer used for (col, row),
// expressed as the buffer would report it.
func CellColor(b *sheet.Buffer, col, row, cellW, cellH int) (r, g, bl, a uint8) {
	c := b.NRGBAAt(col*cellW, row*cellH)
	return c.R, c.G, c.B, c.A
}

// Package editor implements the structural transformations of a gridded
// sprite sheet: inserting, deleting and duplicating rows, columns and
// frames, and spacing cells apart with padding.
//
// All operations in this file are pure: they take a buffer plus its grid,
// return a freshly allocated buffer, and never touch the input. Failed
// operations return the input buffer unchanged together with the error.
// Session (session.go) layers selection-driven targeting and state keeping
// on top.
package editor

import (
	"fmt"

	"github.com/bradfitz/iter"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/sheet"
)

var (
	// ErrNoSheet means the operation ran before any sheet was loaded.
	ErrNoSheet = errors.New("editor: no sheet loaded")
	// ErrOutOfRange means the target row, column or frame is not on the
	// current grid.
	ErrOutOfRange = errors.New("editor: target outside the grid")
	// ErrLastBand means a delete would have removed the only row or the
	// only column of the sheet.
	ErrLastBand = errors.New("editor: cannot delete the only row or column")
)

func check(b *sheet.Buffer, g grid.Grid) error {
	if b == nil || b.Empty() {
		return ErrNoSheet
	}
	return g.Validate()
}

// InsertRow inserts a blank row band before row, or after it when after is
// set. Bands below the insertion point shift down by one row pitch; the new
// band is zero filled (transparent in RGBA sheets).
func InsertRow(b *sheet.Buffer, g grid.Grid, row int, after bool) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if row < 0 || row >= g.Rows(b) {
		return b, ErrOutOfRange
	}
	ph := g.PitchH()
	y := row * ph
	if after {
		y += ph
	}
	st := b.Stride()
	out := sheet.New(b.W, b.H+ph, b.Mode)
	copy(out.Pix, b.Pix[:y*st])
	copy(out.Pix[(y+ph)*st:], b.Pix[y*st:])
	return out, nil
}

// DeleteRow removes the row band at row, shifting the bands below it up.
// The last remaining row cannot be deleted.
func DeleteRow(b *sheet.Buffer, g grid.Grid, row int) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	rows := g.Rows(b)
	if row < 0 || row >= rows {
		return b, ErrOutOfRange
	}
	if rows <= 1 {
		return b, ErrLastBand
	}
	ph := g.PitchH()
	st := b.Stride()
	out := sheet.New(b.W, b.H-ph, b.Mode)
	copy(out.Pix, b.Pix[:row*ph*st])
	copy(out.Pix[row*ph*st:], b.Pix[(row+1)*ph*st:])
	return out, nil
}

// DuplicateRow appends a copy of the row band at row to the bottom of the
// sheet. The copy is not placed next to its source; new frames always grow
// the sheet at its far edge.
func DuplicateRow(b *sheet.Buffer, g grid.Grid, row int) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if row < 0 || row >= g.Rows(b) {
		return b, ErrOutOfRange
	}
	ph := g.PitchH()
	st := b.Stride()
	out := sheet.New(b.W, b.H+ph, b.Mode)
	copy(out.Pix, b.Pix)
	copy(out.Pix[b.H*st:], b.Pix[row*ph*st:(row+1)*ph*st])
	return out, nil
}

// InsertColumn inserts a blank column band before col, or after it when
// after is set.
func InsertColumn(b *sheet.Buffer, g grid.Grid, col int, after bool) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if col < 0 || col >= g.Columns(b) {
		return b, ErrOutOfRange
	}
	pw := g.PitchW()
	x := col * pw
	if after {
		x += pw
	}
	bpp := b.Mode.BytesPerPixel()
	out := sheet.New(b.W+pw, b.H, b.Mode)
	for y := range iter.N(b.H) {
		srow := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		drow := out.Pix[y*out.Stride() : (y+1)*out.Stride()]
		copy(drow, srow[:x*bpp])
		copy(drow[(x+pw)*bpp:], srow[x*bpp:])
	}
	return out, nil
}

// DeleteColumn removes the column band at col. The last remaining column
// cannot be deleted.
func DeleteColumn(b *sheet.Buffer, g grid.Grid, col int) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	cols := g.Columns(b)
	if col < 0 || col >= cols {
		return b, ErrOutOfRange
	}
	if cols <= 1 {
		return b, ErrLastBand
	}
	pw := g.PitchW()
	bpp := b.Mode.BytesPerPixel()
	out := sheet.New(b.W-pw, b.H, b.Mode)
	for y := range iter.N(b.H) {
		srow := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		drow := out.Pix[y*out.Stride() : (y+1)*out.Stride()]
		copy(drow, srow[:col*pw*bpp])
		copy(drow[col*pw*bpp:], srow[(col+1)*pw*bpp:])
	}
	return out, nil
}

// DuplicateColumn appends a copy of the column band at col to the right
// edge of the sheet.
func DuplicateColumn(b *sheet.Buffer, g grid.Grid, col int) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if col < 0 || col >= g.Columns(b) {
		return b, ErrOutOfRange
	}
	pw := g.PitchW()
	bpp := b.Mode.BytesPerPixel()
	out := sheet.New(b.W+pw, b.H, b.Mode)
	for y := range iter.N(b.H) {
		srow := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		drow := out.Pix[y*out.Stride() : (y+1)*out.Stride()]
		copy(drow, srow)
		copy(drow[b.W*bpp:], srow[col*pw*bpp:(col+1)*pw*bpp])
	}
	return out, nil
}

// DuplicateFrame appends the cell at c as a new column at the right edge of
// the sheet. Only c's row band receives the copied pixels; the new column
// stays blank in every other row.
func DuplicateFrame(b *sheet.Buffer, g grid.Grid, c grid.Cell) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if !g.Contains(b, c) {
		return b, ErrOutOfRange
	}
	pw, ph := g.PitchW(), g.PitchH()
	bpp := b.Mode.BytesPerPixel()
	out := sheet.New(b.W+pw, b.H, b.Mode)
	for y := range iter.N(b.H) {
		copy(out.Pix[y*out.Stride():], b.Pix[y*b.Stride():(y+1)*b.Stride()])
	}
	for i := range iter.N(ph) {
		y := c.Row*ph + i
		src := b.Pix[y*b.Stride()+c.Col*pw*bpp : y*b.Stride()+(c.Col+1)*pw*bpp]
		copy(out.Pix[y*out.Stride()+b.W*bpp:], src)
	}
	return out, nil
}

// DeleteFrame removes the frame at c. The whole column band at c.Col is
// removed across every row, not just c's cell; a sheet keeps its rectangular
// shape, so removing one frame takes its column neighbors with it.
func DeleteFrame(b *sheet.Buffer, g grid.Grid, c grid.Cell) (*sheet.Buffer, error) {
	if err := check(b, g); err != nil {
		return b, err
	}
	if !g.Contains(b, c) {
		return b, ErrOutOfRange
	}
	return DeleteColumn(b, g, c.Col)
}

// PadPreview recomposes the sheet with pad transparent pixels around every
// cell, growing the pitch to (cellW+2*pad, cellH+2*pad). The input is the
// unpadded base buffer; previews always derive from it, never from an
// earlier preview, so pad zero returns the base bytes exactly. Trailing
// partial pixels outside the grid are not part of any cell and do not
// survive a non-zero preview.
func PadPreview(base *sheet.Buffer, g grid.Grid, pad int) (*sheet.Buffer, error) {
	g.Pad = 0
	if err := check(base, g); err != nil {
		return base, err
	}
	if pad < 0 {
		return base, fmt.Errorf("editor: negative padding %d", pad)
	}
	if pad == 0 {
		return base.Clone(), nil
	}
	cols, rows := g.Dims(base)
	if cols == 0 || rows == 0 {
		return base, ErrOutOfRange
	}
	src := base.ToRGBA()
	pw, ph := g.CellW+2*pad, g.CellH+2*pad
	out := sheet.New(cols*pw, rows*ph, sheet.RGBA)
	for row := range iter.N(rows) {
		for col := range iter.N(cols) {
			for i := range iter.N(g.CellH) {
				so := src.PixOffset(col*g.CellW, row*g.CellH+i)
				do := out.PixOffset(col*pw+pad, row*ph+pad+i)
				copy(out.Pix[do:do+g.CellW*4], src.Pix[so:])
			}
		}
	}
	return out, nil
}

// Package export turns a selection on a gridded sheet into output pixel
// buffers: a single strip, a sequence of individual frames, an animation
// frame sequence, or a rectangular block.
//
// Exports only read from the source buffer through the grid's cell
// arithmetic; the source is never modified. Cell order follows the
// selection resolution: reading order for rectangle, row and column
// selections, pick order for custom ones.
package export

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/editor"
	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/selection"
	"badc0de.net/pkg/go-spritesheet/sheet"
)

// ErrEmptySelection means an export ran with no resolved cells.
var ErrEmptySelection = errors.New("export: empty selection")

// FrameDelay is the fixed per-frame duration of exported animations.
const FrameDelay = 100 * time.Millisecond

// LoopForever is the animation loop count meaning endless repetition, as
// both GIF and APNG encode it.
const LoopForever = 0

func resolve(b *sheet.Buffer, g grid.Grid, sel *selection.Selection) ([]grid.Cell, error) {
	if b == nil || b.Empty() {
		return nil, editor.ErrNoSheet
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cells := sel.Resolve(g.Dims(b))
	if len(cells) == 0 {
		return nil, ErrEmptySelection
	}
	return cells, nil
}

// Strip renders the selection as a single image. A whole-row selection is
// the row band cropped verbatim and a whole-column selection the column
// band, preserving any trailing pixels of the sheet; every other selection
// becomes a horizontal strip of cell tiles in resolution order.
func Strip(b *sheet.Buffer, g grid.Grid, sel *selection.Selection) (*sheet.Buffer, error) {
	cells, err := resolve(b, g, sel)
	if err != nil {
		return nil, err
	}
	switch sel.Policy() {
	case selection.WholeRow:
		return b.Crop(g.RowRect(b, cells[0].Row)), nil
	case selection.WholeColumn:
		return b.Crop(g.ColumnRect(b, cells[0].Col)), nil
	}

	pw, ph := g.PitchW(), g.PitchH()
	out := sheet.New(len(cells)*pw, ph, b.Mode)
	for i, c := range cells {
		if err := out.Paste(b.Crop(g.TileRect(c)), i*pw, 0); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Frames renders the selection as one buffer per cell, in resolution
// order. Frame i of the result is nameable as frame_i with FrameName.
func Frames(b *sheet.Buffer, g grid.Grid, sel *selection.Selection) ([]*sheet.Buffer, error) {
	cells, err := resolve(b, g, sel)
	if err != nil {
		return nil, err
	}
	out := make([]*sheet.Buffer, 0, len(cells))
	for _, c := range cells {
		out = append(out, b.Crop(g.TileRect(c)))
	}
	return out, nil
}

// Animation renders the selection as an animation frame sequence meant for
// a GIF or APNG encoder, each frame shown for FrameDelay and the sequence
// looping forever.
func Animation(b *sheet.Buffer, g grid.Grid, sel *selection.Selection) ([]*sheet.Buffer, error) {
	return Frames(b, g, sel)
}

// Block renders the selection as the bounding rectangle of its cells, each
// cell at its relative grid position. Unselected cells inside the bounds
// stay blank. The block keeps a rectangle selection's two-dimensional
// shape, where Strip would flatten it.
func Block(b *sheet.Buffer, g grid.Grid, sel *selection.Selection) (*sheet.Buffer, error) {
	cells, err := resolve(b, g, sel)
	if err != nil {
		return nil, err
	}
	minC, maxC := cells[0].Col, cells[0].Col
	minR, maxR := cells[0].Row, cells[0].Row
	for _, c := range cells[1:] {
		minC, maxC = min(minC, c.Col), max(maxC, c.Col)
		minR, maxR = min(minR, c.Row), max(maxR, c.Row)
	}

	pw, ph := g.PitchW(), g.PitchH()
	out := sheet.New((maxC-minC+1)*pw, (maxR-minR+1)*ph, b.Mode)
	for _, c := range cells {
		tile := b.Crop(g.TileRect(c))
		if err := out.Paste(tile, (c.Col-minC)*pw, (c.Row-minR)*ph); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FrameName returns the conventional file name of exported frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%03d.png", i)
}

// RowName returns the conventional file name of exported row strip i.
func RowName(i int, ext string) string {
	return fmt.Sprintf("row_%03d.%s", i, ext)
}

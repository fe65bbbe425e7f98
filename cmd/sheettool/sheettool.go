package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/editor"
	"badc0de.net/pkg/go-spritesheet/export"
	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/sheetio"
	"badc0de.net/pkg/go-spritesheet/sheetprint"
)

var (
	in       = flag.String("in", "", "path of the sprite sheet to load")
	cellW    = flag.Int("cell_width", 32, "cell width in pixels")
	cellH    = flag.Int("cell_height", 32, "cell height in pixels")
	gridRows = flag.Int("rows", 0, "derive the cell size from a row count (needs --cols too; overrides cell_width/cell_height)")
	gridCols = flag.Int("cols", 0, "derive the cell size from a column count (needs --rows too)")

	selectFrame  = flag.String("select_frame", "", "frames to toggle, as col,row pairs: 0,0,2,1 toggles (0, 0) and (2, 1)")
	selectRow    = flag.Int("select_row", -1, "row to select")
	selectColumn = flag.Int("select_column", -1, "column to select")
	selectArea   = flag.String("select_area", "", "rectangle to select, as col0,row0,col1,row1")

	edits = flag.String("edit", "", "comma separated edits to run in order: add_row_above, add_row_below, delete_row, duplicate_row, add_column_left, add_column_right, delete_column, duplicate_column, duplicate_frame, delete_frame")

	padding      = flag.Int("padding", 0, "padding to preview around each cell, in pixels")
	applyPadding = flag.Bool("apply_padding", false, "bake the previewed padding into the sheet")

	outPath   = flag.String("out", "", "write the working sheet to this path as png")
	exportAs  = flag.String("export", "", "export the selection: strip, frames, anim or block")
	exportOut = flag.String("export_out", "", "output path for --export (a directory for frames)")

	doPrint = flag.Bool("print", true, "print the working sheet to the terminal")
	overlay = flag.Bool("grid_overlay", true, "draw the cell boundary overlay when printing")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *in == "" {
		glog.Exit("missing --in: nothing to do")
	}

	s := editor.NewSession()
	b, err := sheetio.Open(*in)
	if err != nil {
		glog.Exitf("loading sheet: %v", err)
	}
	if err := s.Load(b); err != nil {
		glog.Exitf("loading sheet: %v", err)
	}

	if *gridRows > 0 && *gridCols > 0 {
		if err := s.SetCellCount(*gridRows, *gridCols); err != nil {
			glog.Exitf("sizing grid: %v", err)
		}
	} else {
		if err := s.SetCellSize(*cellW, *cellH); err != nil {
			glog.Exitf("sizing grid: %v", err)
		}
	}

	applySelection(s)
	applyEdits(s)

	if *padding > 0 {
		if !s.PreviewPadding(*padding) {
			glog.Exitf("padding %d rejected", *padding)
		}
		if *applyPadding {
			s.ApplyPadding()
		}
	}

	cols, rows := s.Dims()
	glog.Infof("sheet %s: %dx%d px, %dx%d cells of %dx%d", *in, s.Buffer().W, s.Buffer().H, cols, rows, s.Grid().CellW, s.Grid().CellH)
	glog.Infof("%s", s.SelectionLabel())

	if *exportAs != "" {
		if err := runExport(s); err != nil {
			glog.Exitf("export: %v", err)
		}
	}
	if *outPath != "" {
		if err := sheetio.SavePNG(*outPath, s.Buffer()); err != nil {
			glog.Exitf("saving %s: %v", *outPath, err)
		}
	}
	if *doPrint {
		printSheet(s)
	}
}

func applySelection(s *editor.Session) {
	switch {
	case *selectArea != "":
		c, ok := parseCells(*selectArea, 2)
		if !ok {
			glog.Exitf("bad --select_area %q, want col0,row0,col1,row1", *selectArea)
		}
		s.StartSelection(c[0])
		s.DragSelection(c[1])
	case *selectRow >= 0:
		s.SelectRow(*selectRow)
	case *selectColumn >= 0:
		s.SelectColumn(*selectColumn)
	case *selectFrame != "":
		cells, ok := parseCells(*selectFrame, 0)
		if !ok {
			glog.Exitf("bad --select_frame %q, want col,row pairs", *selectFrame)
		}
		for _, c := range cells {
			s.ToggleFrame(c)
		}
	}
}

// parseCells splits "c0,r0,c1,r1,..." into cells. want > 0 pins the
// cell count.
func parseCells(s string, want int) ([]grid.Cell, bool) {
	parts := strings.Split(s, ",")
	if len(parts)%2 != 0 {
		return nil, false
	}
	var cells []grid.Cell
	for i := 0; i+1 < len(parts); i += 2 {
		c, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, false
		}
		r, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil {
			return nil, false
		}
		cells = append(cells, grid.Cell{Col: c, Row: r})
	}
	if want > 0 && len(cells) != want {
		return nil, false
	}
	return cells, true
}

func applyEdits(s *editor.Session) {
	if *edits == "" {
		return
	}
	ops := map[string]func() bool{
		"add_row_above":    s.AddRowAbove,
		"add_row_below":    s.AddRowBelow,
		"delete_row":       s.DeleteRow,
		"duplicate_row":    s.DuplicateRow,
		"add_column_left":  s.AddColumnLeft,
		"add_column_right": s.AddColumnRight,
		"delete_column":    s.DeleteColumn,
		"duplicate_column": s.DuplicateColumn,
		"duplicate_frame":  s.DuplicateFrame,
		"delete_frame":     s.DeleteFrame,
	}
	for _, name := range strings.Split(*edits, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		op, ok := ops[name]
		if !ok {
			glog.Exitf("unknown edit %q", name)
		}
		if !op() {
			glog.Warningf("edit %s skipped (check the selection)", name)
		}
	}
}

func runExport(s *editor.Session) error {
	b, g, sel := s.Buffer(), s.Grid(), s.Selection()
	switch *exportAs {
	case "strip":
		out, err := export.Strip(b, g, sel)
		if err != nil {
			return err
		}
		return sheetio.SavePNG(exportPath(".png"), out)
	case "block":
		out, err := export.Block(b, g, sel)
		if err != nil {
			return err
		}
		return sheetio.SavePNG(exportPath(".png"), out)
	case "frames":
		frames, err := export.Frames(b, g, sel)
		if err != nil {
			return err
		}
		dir := *exportOut
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
		for i, fr := range frames {
			if err := sheetio.SavePNG(filepath.Join(dir, export.FrameName(i)), fr); err != nil {
				return err
			}
		}
		return nil
	case "anim":
		frames, err := export.Animation(b, g, sel)
		if err != nil {
			return err
		}
		path := exportPath(".gif")
		if strings.EqualFold(filepath.Ext(path), ".png") {
			return sheetio.SaveAPNG(path, frames, export.FrameDelay, true)
		}
		return sheetio.SaveGIF(path, frames, export.FrameDelay, true)
	}
	return fmt.Errorf("unknown export shape %q", *exportAs)
}

// exportPath picks the --export output path, deriving one next to the
// input when --export_out is unset.
func exportPath(ext string) string {
	if *exportOut != "" {
		return *exportOut
	}
	return strings.TrimSuffix(*in, filepath.Ext(*in)) + "_export" + ext
}

func printSheet(s *editor.Session) {
	g := s.Grid()
	var overlayGrid *grid.Grid
	if *overlay {
		overlayGrid = &g
	}
	out(sheetprint.Compose(s.Buffer(), overlayGrid))
}

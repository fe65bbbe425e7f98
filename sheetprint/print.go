// Package sheetprint draws sheet buffers on a terminal.
//
// Pixels render two characters wide so cells come out roughly square.
// Transparent areas show the same checkerboard a desktop canvas would,
// and an optional overlay marks cell boundaries in translucent red.
package sheetprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"

	"github.com/gookit/color"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/sheet"
)

type dumper interface {
	Printf(s string, arg ...interface{})
}
type fmtDumperT struct{}

func (fmtDumperT) Printf(s string, arg ...interface{}) {
	fmt.Printf(s, arg...)
}

var fmtDumper fmtDumperT

// checkerSize is the square size of the backdrop drawn behind
// transparent pixels.
const checkerSize = 10

var (
	checkerWhite = ic.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	checkerGray  = ic.NRGBA{R: 0xdc, G: 0xdc, B: 0xdc, A: 0xff}
	boundaryRed  = ic.NRGBA{R: 0xff, A: 0x80}
)

// checkerAt returns the backdrop color behind pixel (x, y).
func checkerAt(x, y int) ic.NRGBA {
	if ((x/checkerSize)+(y/checkerSize))%2 != 0 {
		return checkerGray
	}
	return checkerWhite
}

// blend composites fg over an opaque background.
func blend(bg, fg ic.NRGBA) ic.NRGBA {
	a := uint32(fg.A)
	switch a {
	case 0:
		return bg
	case 0xff:
		return fg
	}
	return ic.NRGBA{
		R: uint8((uint32(fg.R)*a + uint32(bg.R)*(0xff-a)) / 0xff),
		G: uint8((uint32(fg.G)*a + uint32(bg.G)*(0xff-a)) / 0xff),
		B: uint8((uint32(fg.B)*a + uint32(bg.B)*(0xff-a)) / 0xff),
		A: 0xff,
	}
}

// onBoundary reports whether (x, y) sits on a cell edge. Outer right
// and bottom edges count so the last cells read as closed boxes.
func onBoundary(x, y, w, h int, g *grid.Grid) bool {
	pw, ph := g.PitchW(), g.PitchH()
	return x%pw == 0 || y%ph == 0 || x == w-1 || y == h-1
}

// Compose flattens b over the checkerboard and returns an opaque image
// any of the Print functions can draw. A non-nil valid grid adds the
// boundary overlay.
func Compose(b *sheet.Buffer, g *grid.Grid) *image.NRGBA {
	if g != nil && g.Validate() != nil {
		g = nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			c := blend(checkerAt(x, y), b.NRGBAAt(x, y))
			if g != nil && onBoundary(x, y, b.W, b.H, g) {
				c = blend(c, boundaryRed)
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// glyph picks an ascii shade from pixel luminance, darkest first.
func glyph(r, g, b uint32) string {
	a := ((r + g + b) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func shade(col ic.Color, escapesTrueColor, blanks, noColor bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA > 0 {
		var d dumper

		if noColor {
			d = &fmtDumper
		} else if escapesTrueColor {
			fmt.Printf("\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
			d = &fmtDumper
		} else {
			d = color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
		}
		if blanks {
			d.Printf("  ")
		} else {
			d.Printf(glyph(cR, cG, cB))
		}

		if escapesTrueColor {
			fmt.Printf("\x1b[0m")
		}
	} else {
		fmt.Printf("\x1b[0m  ")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), false, blanks, false)
		}
		fmt.Printf("\x1b[0m")
		fmt.Printf("\n")
	}
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, false)
		}
		fmt.Printf("\x1b[0m")
		fmt.Printf("\n")
	}
}

// PrintNoColor draws an image without using color escape sequences. Only makes sense with blanks=false.
func PrintNoColor(i image.Image, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(i.At(x, y), true, blanks, true)
		}
		fmt.Printf("\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	fmt.Printf("\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, len(b.String()), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}

package sheetio

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/kettek/apng"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritesheet/sheet"
)

// ErrNoFrames means an animation encode ran with an empty frame sequence.
var ErrNoFrames = errors.New("sheetio: no frames to encode")

// EncodePNG writes the buffer to w as a PNG.
func EncodePNG(w io.Writer, b *sheet.Buffer) error {
	if b == nil || b.Empty() {
		return ErrNoFrames
	}
	return errors.Wrap(png.Encode(w, b.NRGBA()), "encoding png")
}

// SavePNG writes the buffer to a PNG file at path.
func SavePNG(path string, b *sheet.Buffer) error {
	return save(path, func(f io.Writer) error {
		return EncodePNG(f, b)
	})
}

// EncodeGIF writes the frames to w as an animated GIF, each frame shown
// for delay. Every frame gets its own median-cut palette with a
// transparency slot, so partially transparent sprites keep a clean
// background instead of smearing across frames.
func EncodeGIF(w io.Writer, frames []*sheet.Buffer, delay time.Duration, loopForever bool) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	g := gif.GIF{LoopCount: 0}
	if !loopForever {
		g.LoopCount = -1 // play once
	}
	cs := int(delay.Milliseconds() / 10) // GIF delays are in centiseconds

	quantizer := quantize.MedianCutQuantizer{AddTransparent: true}
	for _, fr := range frames {
		img := fr.NRGBA()
		pal := quantizer.Quantize(make(color.Palette, 0, 256), img)
		pimg := image.NewPaletted(img.Bounds(), pal)
		draw.Draw(pimg, img.Bounds(), img, image.ZP, draw.Src)

		g.Image = append(g.Image, pimg)
		g.Delay = append(g.Delay, cs)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	if ti := transparentIndex(g.Image[0].Palette); ti >= 0 {
		g.BackgroundIndex = uint8(ti)
	}
	return errors.Wrap(gif.EncodeAll(w, &g), "encoding gif")
}

// SaveGIF writes the frames to an animated GIF file at path.
func SaveGIF(path string, frames []*sheet.Buffer, delay time.Duration, loopForever bool) error {
	return save(path, func(f io.Writer) error {
		return EncodeGIF(f, frames, delay, loopForever)
	})
}

// transparentIndex finds a fully transparent palette entry.
func transparentIndex(p color.Palette) int {
	for i, c := range p {
		if _, _, _, a := c.RGBA(); a == 0 {
			return i
		}
	}
	return -1
}

// EncodeAPNG writes the frames to w as an animated PNG, each frame shown
// for delay. Frames replace each other outright rather than compositing,
// matching the GIF path's disposal behavior.
func EncodeAPNG(w io.Writer, frames []*sheet.Buffer, delay time.Duration, loopForever bool) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	a := apng.APNG{LoopCount: 0}
	if !loopForever {
		a.LoopCount = 1
	}
	for _, fr := range frames {
		a.Frames = append(a.Frames, apng.Frame{
			Image:            fr.NRGBA(),
			DelayNumerator:   uint16(delay.Milliseconds()),
			DelayDenominator: 1000,
			DisposeOp:        apng.DISPOSE_OP_BACKGROUND,
			BlendOp:          apng.BLEND_OP_SOURCE,
		})
	}
	return errors.Wrap(apng.Encode(w, a), "encoding apng")
}

// SaveAPNG writes the frames to an animated PNG file at path.
func SaveAPNG(path string, frames []*sheet.Buffer, delay time.Duration, loopForever bool) error {
	return save(path, func(f io.Writer) error {
		return EncodeAPNG(f, frames, delay, loopForever)
	})
}

func save(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

package web

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/cenkalti/dominantcolor"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/glog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/selection"
	"badc0de.net/pkg/go-spritesheet/sheet"
	"badc0de.net/pkg/go-spritesheet/sheetprint"
)

// highlightBlue is the fill behind selected cells.
var highlightBlue = color.NRGBA{B: 0xff, A: 0x50}

const maxViewScale = 16

// viewHandler renders the annotated canvas: checkerboard, sheet, grid
// lines, selection highlight. Query params: scale=1..16, labels=1 to
// write cell coordinates into each cell.
func (h *Handler) viewHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.session
	if !s.Loaded() {
		http.Error(w, "no sheet loaded", http.StatusServiceUnavailable)
		return
	}

	scale := 1
	if sc := r.URL.Query().Get("scale"); sc != "" {
		scale, _ = strconv.Atoi(sc)
		// ignore invalid scale
	}
	if scale < 1 {
		scale = 1
	}
	if scale > maxViewScale {
		scale = maxViewScale
	}
	labels := r.URL.Query().Get("labels") != ""

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"view:%d:%08x:%d.%t:%s"`, generation, h.gen.Load(), scale, labels, mime)
	if r.Header.Get("If-None-Match") == etag {
		h.setCacheHeaders(w, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	img, err := renderView(s.Buffer(), s.Grid(), s.Selection(), scale, labels)
	if err != nil {
		http.Error(w, "view could not be rendered", http.StatusInternalServerError)
		glog.Errorf("rendering view: %v", err)
		return
	}

	w.Header().Set("Content-Type", mime)
	h.setCacheHeaders(w, etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

// renderView draws the working buffer the way a desktop canvas shows
// it: over a checkerboard, under grid lines and selection highlights.
func renderView(b *sheet.Buffer, g grid.Grid, sel *selection.Selection, scale int, labels bool) (image.Image, error) {
	base := sheetprint.Compose(b, nil)
	var img image.Image = base
	if scale > 1 {
		img = resize.Resize(uint(b.W*scale), uint(b.H*scale), base, resize.NearestNeighbor)
	}

	dc := gg.NewContext(b.W*scale, b.H*scale)
	dc.DrawImage(img, 0, 0)

	cols, rows := g.Dims(b)
	if g.Validate() != nil || cols == 0 || rows == 0 {
		return dc.Image(), nil
	}
	pw, ph := g.PitchW()*scale, g.PitchH()*scale

	// Highlight under the lines so boundaries stay readable.
	dc.SetColor(highlightBlue)
	for _, c := range sel.Resolve(cols, rows) {
		dc.DrawRectangle(float64(c.Col*pw), float64(c.Row*ph), float64(pw), float64(ph))
	}
	dc.Fill()

	line := overlayColor(base)
	dc.SetColor(line)
	dc.SetLineWidth(1)
	for x := 0; x <= cols*pw; x += pw {
		fx := edge(x, b.W*scale)
		dc.DrawLine(fx, 0, fx, float64(b.H*scale))
	}
	for y := 0; y <= rows*ph; y += ph {
		fy := edge(y, b.H*scale)
		dc.DrawLine(0, fy, float64(b.W*scale), fy)
	}
	dc.Stroke()

	if labels {
		face, err := labelFace()
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				dc.DrawString(fmt.Sprintf("%d,%d", col, row), float64(col*pw)+3, float64(row*ph)+12)
			}
		}
	}

	return dc.Image(), nil
}

// edge keeps the outermost grid lines inside the image.
func edge(v, limit int) float64 {
	if v >= limit {
		return float64(limit) - 0.5
	}
	return float64(v) + 0.5
}

// overlayColor picks a grid color that stands out against the sheet's
// dominant color: complementary hue, lightness flipped.
func overlayColor(img image.Image) color.NRGBA {
	dom, ok := colorful.MakeColor(dominantcolor.Find(img))
	if !ok {
		return color.NRGBA{R: 0xff, A: 0xff}
	}
	hue, _, l := dom.Hsl()
	if l < 0.5 {
		l = 0.85
	} else {
		l = 0.15
	}
	r, g, b := colorful.Hsl(math.Mod(hue+180, 360), 0.9, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

var (
	labelFaceOnce sync.Once
	labelFaceVal  font.Face
	labelFaceErr  error
)

func labelFace() (font.Face, error) {
	labelFaceOnce.Do(func() {
		f, err := truetype.Parse(gomono.TTF)
		if err != nil {
			labelFaceErr = err
			return
		}
		labelFaceVal = truetype.NewFace(f, &truetype.Options{
			Size:    10,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return labelFaceVal, labelFaceErr
}

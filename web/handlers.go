// Package web serves quick-look views of the editing session over HTTP.
//
// The endpoints are read-only: they render whatever the session holds at
// request time, so a browser tab works as a live preview next to a CLI
// or scripted editing run.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/andybons/gogif"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-spritesheet/editor"
	"badc0de.net/pkg/go-spritesheet/export"
	"badc0de.net/pkg/go-spritesheet/grid"
	"badc0de.net/pkg/go-spritesheet/selection"
	"badc0de.net/pkg/go-spritesheet/sheetio"
)

type Handler struct {
	mu      sync.Mutex
	session *editor.Session
	path    string

	// gen counts session changes and feeds the ETags.
	gen atomic.Uint64
}

// NewHandler constructs the web handler around an editing session. A
// non-empty path names the file Reload re-reads.
func NewHandler(s *editor.Session, path string) *Handler {
	h := &Handler{
		session: s,
		path:    path,
	}
	s.OnChange(func() { h.gen.Add(1) })
	return h
}

// Reload re-decodes the source file into the session. The old buffer
// stays when the file no longer decodes, so a half-written save does
// not blank the preview.
func (h *Handler) Reload() {
	if h.path == "" {
		return
	}
	b, err := sheetio.Open(h.path)
	if err != nil {
		glog.Errorf("reloading %s: %v", h.path, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.session.Load(b); err != nil {
		glog.Errorf("reloading %s: %v", h.path, err)
		return
	}
	glog.Infof("reloaded %s: %dx%d", h.path, b.W, b.H)
}

func (h *Handler) setCacheHeaders(w http.ResponseWriter, etag string) {
	w.Header().Set("Cache-Control", "no-cache") // mutable while editing; the etag carries the change count
	w.Header().Set("ETag", etag)
	if h.path != "" {
		if s, err := os.Stat(h.path); err == nil {
			w.Header().Set("Last-Modified", s.ModTime().Format(http.TimeFormat))
		}
	}
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.session
	if !s.Loaded() {
		http.Error(w, "no sheet loaded", http.StatusServiceUnavailable)
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"sheet:%d:%08x:%s"`, generation, h.gen.Load(), mime)
	if r.Header.Get("If-None-Match") == etag {
		h.setCacheHeaders(w, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", mime)
	h.setCacheHeaders(w, etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, s.Buffer().NRGBA())
}

func (h *Handler) cellHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	vars := mux.Vars(r)
	col, err := strconv.Atoi(vars["col"])
	if err != nil {
		http.Error(w, "col not a number", http.StatusBadRequest)
		return
	}
	row, err := strconv.Atoi(vars["row"])
	if err != nil {
		http.Error(w, "row not a number", http.StatusBadRequest)
		return
	}

	s := h.session
	if !s.Loaded() {
		http.Error(w, "no sheet loaded", http.StatusServiceUnavailable)
		return
	}

	b, g := s.Buffer(), s.Grid()
	c := grid.Cell{Col: col, Row: row}
	if !g.Contains(b, c) {
		http.Error(w, "no such cell", http.StatusNotFound)
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"cell:%d:%08x:%d.%d:%s"`, generation, h.gen.Load(), col, row, mime)
	if r.Header.Get("If-None-Match") == etag {
		h.setCacheHeaders(w, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", mime)
	h.setCacheHeaders(w, etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, b.Crop(g.TileRect(c)).NRGBA())
}

func (h *Handler) rowGIFHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	vars := mux.Vars(r)
	row, err := strconv.Atoi(vars["row"])
	if err != nil {
		http.Error(w, "row not a number", http.StatusBadRequest)
		return
	}

	s := h.session
	if !s.Loaded() {
		http.Error(w, "no sheet loaded", http.StatusServiceUnavailable)
		return
	}

	b, g := s.Buffer(), s.Grid()
	var sel selection.Selection
	sel.SelectRow(row)
	frames, err := export.Animation(b, g, &sel)
	if err == export.ErrEmptySelection {
		http.Error(w, "no such row", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/gif"
	etag := fmt.Sprintf(`W/"row:%d:%08x:%d:%s"`, generation, h.gen.Load(), row, mime)
	if r.Header.Get("If-None-Match") == etag {
		h.setCacheHeaders(w, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	anim := gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // up to 255 colors plus 1 slot for transparency
	for _, fr := range frames {
		img := fr.NRGBA()
		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.ZP)

		// The quantizer has no palette-only mode, so each frame is
		// copied once to learn the palette and once more to gain the
		// leading transparency slot. Quick-look sizes keep that cheap.
		palTransparent := image.NewPaletted(img.Bounds(), append(color.Palette([]color.Color{color.Transparent}), pal.Palette...))
		draw.Draw(palTransparent, img.Bounds(), img, image.ZP, draw.Over)

		anim.Image = append(anim.Image, palTransparent)
		anim.Delay = append(anim.Delay, int(export.FrameDelay.Milliseconds()/10))
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
		anim.BackgroundIndex = 0 // color.Transparent
	}
	anim.LoopCount = 0 // loop forever

	w.Header().Set("Content-Type", mime)
	h.setCacheHeaders(w, etag)
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, &anim)
}

type sheetInfo struct {
	Path       string `json:"path,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Mode       string `json:"mode"`
	CellWidth  int    `json:"cell_width"`
	CellHeight int    `json:"cell_height"`
	Padding    int    `json:"padding"`
	Columns    int    `json:"columns"`
	Rows       int    `json:"rows"`
	Selection  string `json:"selection"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

func (h *Handler) jsonHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.session
	if !s.Loaded() {
		http.Error(w, "no sheet loaded", http.StatusServiceUnavailable)
		return
	}

	b, g := s.Buffer(), s.Grid()
	cols, rows := g.Dims(b)
	info := sheetInfo{
		Path:       h.path,
		Width:      b.W,
		Height:     b.H,
		Mode:       b.Mode.String(),
		CellWidth:  g.CellW,
		CellHeight: g.CellH,
		Padding:    s.Padding(),
		Columns:    cols,
		Rows:       rows,
		Selection:  s.SelectionLabel(),
	}

	thumb := resize.Thumbnail(128, 128, b.NRGBA(), resize.Lanczos3)
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, thumb); err == nil {
		dataURL := dataurl.New(buf.Bytes(), "image/png")
		if byt, err := dataURL.MarshalText(); err == nil {
			info.Thumbnail = string(byt)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(info)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sheet.png", h.sheetHandler)
	r.HandleFunc("/sheet.json", h.jsonHandler)
	r.HandleFunc("/cell/{col:[0-9]+}-{row:[0-9]+}.png", h.cellHandler)
	r.HandleFunc("/row/{row:[0-9]+}.gif", h.rowGIFHandler)
	r.HandleFunc("/view", h.viewHandler)
}

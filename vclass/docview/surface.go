// Package docview rasterizes uploaded PDF pages into the fixed-size buffer
// that backs the in-scene display surface.
//
// A Surface owns one document at a time. Uploads are checked by declared MIME
// type, decoded with pdfcpu and rendered into the raster; consumers pick the
// raster up through ConsumeDirty once per refresh.
package docview

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/semaphore"
)

// Config sizes the raster and sets the initial display brightness.
type Config struct {
	Width      int
	Height     int
	Brightness float32
}

func DefaultConfig() Config {
	return Config{Width: 1920, Height: 1440, Brightness: 0.7}
}

const maxBrightness = 2

// Surface is the document display. All methods must be called from the frame
// loop goroutine; RenderPage additionally refuses re-entry.
type Surface struct {
	log *slog.Logger
	dec Decoder

	raster *image.RGBA
	backup []uint8 // raster before the load in progress
	prior  []uint8 // raster before the render in progress
	faces  *faceCache
	sem    *semaphore.Weighted

	doc      Document
	name     string
	page     int
	rendered int
	dirty    bool

	brightness float32
}

// New returns a surface showing the blank canvas. A nil decoder selects
// PDFDecoder.
func New(cfg Config, dec Decoder, log *slog.Logger) *Surface {
	def := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if dec == nil {
		dec = PDFDecoder{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Surface{
		log:        log.With("component", "docview"),
		dec:        dec,
		raster:     image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		faces:      newFaceCache(),
		sem:        semaphore.NewWeighted(1),
		brightness: mgl32.Clamp(cfg.Brightness, 0, maxBrightness),
	}
	drawBlank(s.raster, s.faces)
	s.dirty = true
	return s
}

// Load replaces the current document with an upload. Anything but a valid PDF
// declared as application/pdf yields a *DecodeError and leaves the document,
// page and raster as they were. On success page 1 is rendered; a failure to
// render it is logged and does not fail the load, but the raster and dirty
// flag go back to what they were before the upload.
func (s *Surface) Load(name, declaredMIME string, data []byte) (Document, error) {
	if declaredMIME != MIMEPDF {
		err := &DecodeError{Name: name, Reason: fmt.Sprintf("declared type %q is not %s", declaredMIME, MIMEPDF)}
		s.log.Error("upload rejected", "name", name, "mime", declaredMIME)
		return nil, err
	}

	s.backup = append(s.backup[:0], s.raster.Pix...)
	prevDirty := s.dirty
	drawLoading(s.raster, s.faces)
	s.dirty = true

	doc, err := s.dec.Decode(data)
	if err != nil {
		copy(s.raster.Pix, s.backup)
		s.dirty = prevDirty
		derr := &DecodeError{Name: name, Reason: "not a valid PDF", Err: err}
		s.log.Error("upload rejected", "name", name, "err", err)
		return nil, derr
	}

	s.doc, s.name, s.page, s.rendered = doc, name, 1, 0
	s.log.Info("document loaded", "name", name, "pages", doc.PageCount(), "bytes", len(data))
	if err := s.RenderPage(1); err != nil {
		copy(s.raster.Pix, s.backup)
		s.dirty = prevDirty
	}
	return doc, nil
}

// RenderPage clears the raster to white and draws page index scaled to fit.
// It is a no-op returning nil while another render is in flight. On failure
// the raster is restored and the dirty flag left as it was, so whatever was
// last rendered stays on the display.
func (s *Surface) RenderPage(index int) error {
	if !s.sem.TryAcquire(1) {
		s.log.Debug("render already in flight", "page", index)
		return nil
	}
	defer s.sem.Release(1)

	if s.doc == nil {
		return ErrNoDocument
	}
	if index < 1 || index > s.doc.PageCount() {
		return &RenderError{Page: index, Err: ErrPageRange}
	}
	w, h, err := s.doc.PageSize(index)
	if err != nil {
		return s.renderFailed(index, err)
	}
	s.prior = append(s.prior[:0], s.raster.Pix...)
	fill(s.raster, white)
	b := s.raster.Bounds()
	if err := s.doc.Render(index, s.raster, Fit(w, h, b.Dx(), b.Dy())); err != nil {
		copy(s.raster.Pix, s.prior)
		return s.renderFailed(index, err)
	}
	s.dirty = true
	s.rendered = index
	s.log.Debug("page rendered", "page", index, "width", w, "height", h)
	return nil
}

func (s *Surface) renderFailed(page int, err error) error {
	rerr := &RenderError{Page: page, Err: err}
	s.log.Warn("page render failed", "page", page, "err", err)
	return rerr
}

// NextPage advances one page. It does nothing on the last page or without a
// document.
func (s *Surface) NextPage() error {
	if s.doc == nil || s.page >= s.doc.PageCount() {
		return nil
	}
	s.page++
	return s.RenderPage(s.page)
}

// PrevPage goes back one page. It does nothing on page 1 or without a
// document.
func (s *Surface) PrevPage() error {
	if s.doc == nil || s.page <= 1 {
		return nil
	}
	s.page--
	return s.RenderPage(s.page)
}

// ConsumeDirty hands the raster to upload if it changed since the last call,
// then clears the flag. It reports whether upload ran.
func (s *Surface) ConsumeDirty(upload func(*image.RGBA)) bool {
	if !s.dirty {
		return false
	}
	if upload != nil {
		upload(s.raster)
	}
	s.dirty = false
	return true
}

func (s *Surface) Dirty() bool { return s.dirty }

// SetBrightness sets the display's emissive intensity, clamped to [0, 2].
func (s *Surface) SetBrightness(v float32) {
	s.brightness = mgl32.Clamp(v, 0, maxBrightness)
}

func (s *Surface) Brightness() float32 { return s.brightness }

// Label is the page indicator text.
func (s *Surface) Label() string {
	if s.doc == nil {
		return "No PDF loaded"
	}
	return fmt.Sprintf("Page %d / %d", s.page, s.doc.PageCount())
}

// Current is the 1-based current page, or 0 without a document.
func (s *Surface) Current() int { return s.page }

// Total is the page count, or 0 without a document.
func (s *Surface) Total() int {
	if s.doc == nil {
		return 0
	}
	return s.doc.PageCount()
}

// Rendered is the page the raster currently shows, or 0 when it shows no
// page of the current document.
func (s *Surface) Rendered() int { return s.rendered }

func (s *Surface) Name() string { return s.name }

func (s *Surface) Loaded() bool { return s.doc != nil }

// Raster exposes the buffer for read-only use outside the upload hook, such
// as snapshots.
func (s *Surface) Raster() *image.RGBA { return s.raster }

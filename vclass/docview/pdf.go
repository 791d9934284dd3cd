package docview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is a decoded multi-page document. Pages are 1-based.
type Document interface {
	PageCount() int
	// PageSize returns the page size in points.
	PageSize(page int) (w, h float64, err error)
	// Render draws the page onto dst at placement p. dst is not cleared.
	Render(page int, dst *image.RGBA, p Placement) error
}

// Decoder turns uploaded bytes into a Document.
type Decoder interface {
	Decode(data []byte) (Document, error)
}

var disableConfigDir sync.Once

// PDFDecoder reads and validates documents with pdfcpu in relaxed mode.
type PDFDecoder struct{}

func (PDFDecoder) Decode(data []byte) (Document, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("document has no pages")
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("page dims: %w", err)
	}
	if len(dims) < ctx.PageCount {
		return nil, fmt.Errorf("page dims: got %d for %d pages", len(dims), ctx.PageCount)
	}
	return &pdfDocument{ctx: ctx, dims: dims, faces: newFaceCache()}, nil
}

type pdfDocument struct {
	ctx   *model.Context
	dims  []types.Dim
	faces *faceCache
}

func (d *pdfDocument) PageCount() int { return d.ctx.PageCount }

func (d *pdfDocument) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > d.ctx.PageCount {
		return 0, 0, ErrPageRange
	}
	dim := d.dims[page-1]
	return dim.Width, dim.Height, nil
}

func (d *pdfDocument) Render(page int, dst *image.RGBA, p Placement) error {
	_, h, err := d.PageSize(page)
	if err != nil {
		return err
	}
	r, err := pdfcpu.ExtractPageContent(d.ctx, page)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}
	var content []byte
	if r != nil {
		if content, err = io.ReadAll(r); err != nil {
			return fmt.Errorf("read content: %w", err)
		}
	}
	return newPainter(dst, h, p, d.faces, d.fontNames(page)).run(content)
}

// fontNames maps the page's font resource names to their base font names.
// Lookup failures leave the map short; text then falls back to the regular
// face.
func (d *pdfDocument) fontNames(page int) map[string]string {
	out := make(map[string]string)
	pageDict, _, inh, err := d.ctx.PageDict(page, false)
	if err != nil || pageDict == nil {
		return out
	}
	res, _ := d.ctx.DereferenceDict(pageDict["Resources"])
	if res == nil && inh != nil {
		res = inh.Resources
	}
	if res == nil {
		return out
	}
	fonts, _ := d.ctx.DereferenceDict(res["Font"])
	for name, obj := range fonts {
		fd, err := d.ctx.DereferenceDict(obj)
		if err != nil || fd == nil {
			continue
		}
		if bf := fd.NameEntry("BaseFont"); bf != nil {
			out[name] = *bf
		}
	}
	return out
}

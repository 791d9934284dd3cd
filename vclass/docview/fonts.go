package docview

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type family int

const (
	familyRegular family = iota
	familyBold
	familyItalic
	familyMono
	familyCount
)

var goFonts = sync.OnceValue(func() [familyCount]*opentype.Font {
	var out [familyCount]*opentype.Font
	for i, ttf := range [familyCount][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF} {
		if f, err := opentype.Parse(ttf); err == nil {
			out[i] = f
		}
	}
	return out
})

// familyFor picks a Go font standing in for a PDF base font name.
func familyFor(baseFont string) family {
	n := strings.ToLower(baseFont)
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		return familyMono
	case strings.Contains(n, "bold"), strings.Contains(n, "black"), strings.Contains(n, "heavy"):
		return familyBold
	case strings.Contains(n, "italic"), strings.Contains(n, "oblique"):
		return familyItalic
	}
	return familyRegular
}

type faceKey struct {
	family family
	px     int
}

// faceCache hands out font faces by family and pixel size. Faces are never
// closed; the cache lives as long as its surface.
type faceCache struct {
	faces map[faceKey]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[faceKey]font.Face)}
}

const maxFacePx = 512

// face returns a face for the family at roughly px pixels, or nil when the
// size is unusable or the font failed to parse.
func (c *faceCache) face(f family, px float64) font.Face {
	if math.IsNaN(px) || px < 1 {
		return nil
	}
	k := faceKey{family: f, px: int(math.Round(min(px, maxFacePx)))}
	if fc, ok := c.faces[k]; ok {
		return fc
	}
	otf := goFonts()[f]
	if otf == nil {
		return nil
	}
	fc, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(k.px),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	c.faces[k] = fc
	return fc
}

// Package textures generates the classroom's procedural surface images.
// Every generator takes its own seeded source, so a given seed always
// produces the same pixels regardless of scheduling.
package textures

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/vector"
	"golang.org/x/sync/errgroup"

	"classroom/internal/mathutil"
)

// Set holds the generated surface images.
type Set struct {
	Wood       *image.RGBA
	Floor      *image.RGBA
	Wall       *image.RGBA
	Blackboard *image.RGBA
}

// Generate builds every texture concurrently and joins before returning.
func Generate(ctx context.Context, seed uint64) (*Set, error) {
	s := &Set{}
	jobs := []struct {
		dst **image.RGBA
		gen func(*rand.Rand) *image.RGBA
	}{
		{&s.Wood, func(r *rand.Rand) *image.RGBA { return Wood(r, 512, 512) }},
		{&s.Floor, func(r *rand.Rand) *image.RGBA { return Floor(r, 512, 512) }},
		{&s.Wall, func(r *rand.Rand) *image.RGBA { return Wall(r, 512, 512) }},
		{&s.Blackboard, func(r *rand.Rand) *image.RGBA { return Blackboard(r, 1024, 512) }},
	}
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			*j.dst = j.gen(mathutil.NewRand(seed, uint64(i)+1))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// Wood is a horizontal brown gradient crossed by 20 curved grain lines.
func Wood(rng *rand.Rand, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	edge := color.RGBA{0x8b, 0x45, 0x13, 0xff}
	mid := color.RGBA{0xa0, 0x52, 0x2d, 0xff}
	for x := 0; x < w; x++ {
		t := float32(x) / float32(max(w-1, 1))
		k := 1 - abs32(2*t-1)
		c := color.RGBA{mix(edge.R, mid.R, k), mix(edge.G, mid.G, k), mix(edge.B, mid.B, k), 0xff}
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	grain := color.NRGBA{101, 67, 33, 77}
	r := vector.NewRasterizer(w, h)
	fw, fh := float32(w), float32(h)
	for i := 0; i < 20; i++ {
		y := rng.Float32() * fh
		c1 := y + rng.Float32()*10 - 5
		c2 := y + rng.Float32()*10 - 5
		pts := cubic(pt{0, y}, pt{fw * 0.25, c1}, pt{fw * 0.75, c2}, pt{fw, y}, 32)
		r.Reset(w, h)
		strokePolyline(r, pts, 2)
		r.Draw(img, img.Bounds(), image.NewUniform(grain), image.Point{})
	}
	return img
}

// Floor is light grey with a 4×4 tile grid and faint specks.
func Floor(rng *rand.Rand, w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{0xd3, 0xd3, 0xd3, 0xff})
	line := image.NewUniform(color.RGBA{0x99, 0x99, 0x99, 0xff})
	tile := max(w/4, 1)
	for x := 0; x <= w; x += tile {
		draw.Draw(img, image.Rect(x-1, 0, x+1, h), line, image.Point{}, draw.Src)
	}
	tile = max(h/4, 1)
	for y := 0; y <= h; y += tile {
		draw.Draw(img, image.Rect(0, y-1, w, y+1), line, image.Point{}, draw.Src)
	}
	specks(img, rng, 100, 3, color.RGBA{150, 150, 150, 0}, 0.1)
	return img
}

// Wall is beige with specks and a faint monochrome grain.
func Wall(rng *rand.Rand, w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{0xf5, 0xf5, 0xdc, 0xff})
	specks(img, rng, 200, 2, color.RGBA{230, 230, 210, 0}, 0.3)
	return blend.Opacity(img, grainImage(rng, w, h), 0.04)
}

// Blackboard is dark green with chalk dust, softened by a slight blur.
func Blackboard(rng *rand.Rand, w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{0x2c, 0x5f, 0x2d, 0xff})
	specks(img, rng, 500, 1.5, color.RGBA{255, 255, 255, 0}, 0.05)
	return blur.Gaussian(img, 0.6)
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// specks scatters n squares of side below maxSize in colour c with alpha
// below maxAlpha.
func specks(img *image.RGBA, rng *rand.Rand, n int, maxSize float32, c color.RGBA, maxAlpha float32) {
	b := img.Bounds()
	for i := 0; i < n; i++ {
		x := int(rng.Float32() * float32(b.Dx()))
		y := int(rng.Float32() * float32(b.Dy()))
		size := max(int(rng.Float32()*maxSize+0.5), 1)
		a := uint8(rng.Float32() * maxAlpha * 255)
		src := image.NewUniform(color.NRGBA{c.R, c.G, c.B, a})
		draw.Draw(img, image.Rect(x, y, x+size, y+size).Intersect(b), src, image.Point{}, draw.Over)
	}
}

// grainImage is seeded monochrome noise.
func grainImage(rng *rand.Rand, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		v := uint8(rng.IntN(256))
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 0xff
	}
	return img
}

func mix(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

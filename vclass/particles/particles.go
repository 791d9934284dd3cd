// Package particles animates the ambient effects: rising dust motes and a
// handful of slowly tumbling books.
package particles

import (
	"log/slog"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"classroom/internal/mathutil"
	"classroom/vclass/softgl"
)

type Config struct {
	Dust    int
	Books   int
	Enabled bool
}

func DefaultConfig() Config {
	return Config{Dust: 200, Books: 5, Enabled: true}
}

// Dust volume half extents and ceiling.
const (
	dustHalfX = 10
	dustHalfZ = 7.5
	dustTop   = 4
)

// BookColors is the palette books are painted from.
var BookColors = []uint32{0xff6b6b, 0x4ecdc4, 0x45b7d1, 0x96ceb4, 0xffeaa7, 0xdda15e}

// BookParams drives one book's bob.
type BookParams struct {
	Speed  float32
	Radius float32
	Offset float32
}

// Effects owns the dust cloud and book nodes.
type Effects struct {
	log   *slog.Logger
	scene *softgl.Scene

	dust *softgl.PointCloud
	vel  []softgl.Vec3

	books  []softgl.NodeID
	params []BookParams

	visible bool
}

// New adds the dust cloud and books to scene, drawing positions from rng.
func New(scene *softgl.Scene, cfg Config, rng *rand.Rand, log *slog.Logger) *Effects {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Effects{
		log:   log.With("component", "particles"),
		scene: scene,
		dust: &softgl.PointCloud{
			Positions: make([]softgl.Vec3, 0, max(cfg.Dust, 0)),
			Color:     softgl.Hex(0xffffff),
			Size:      2,
			Opacity:   0.3,
			Additive:  true,
		},
	}
	for i := 0; i < cfg.Dust; i++ {
		e.dust.Positions = append(e.dust.Positions, softgl.V3(
			(rng.Float32()-0.5)*2*dustHalfX,
			rng.Float32()*dustTop,
			(rng.Float32()-0.5)*2*dustHalfZ,
		))
		e.vel = append(e.vel, softgl.V3(
			(rng.Float32()-0.5)*0.002,
			rng.Float32()*0.01+0.005,
			(rng.Float32()-0.5)*0.002,
		))
	}
	scene.AddPoints(e.dust)

	book := softgl.Box(0.15, 0.2, 0.05)
	for i := 0; i < cfg.Books; i++ {
		t := softgl.At(
			(rng.Float32()-0.5)*18,
			2+rng.Float32()*1.5,
			(rng.Float32()-0.5)*14,
		).WithRotation(rng.Float32()*math32.Pi, rng.Float32()*math32.Pi, rng.Float32()*math32.Pi)
		n := scene.AddNode(softgl.Root, t)
		scene.AddMesh(softgl.Mesh{
			Node:     n,
			Geometry: book,
			Material: softgl.Material{Color: softgl.Hex(mathutil.RandomColor(rng, BookColors, 0xff6b6b)), CastShadow: true},
		})
		e.books = append(e.books, n)
		e.params = append(e.params, BookParams{
			Speed:  0.2 + rng.Float32()*0.3,
			Radius: 0.3 + rng.Float32()*0.2,
			Offset: rng.Float32() * 2 * math32.Pi,
		})
	}
	e.SetVisible(cfg.Enabled)
	return e
}

// Update advances every particle one step at elapsed time t seconds.
func (e *Effects) Update(t float32) {
	for i := range e.dust.Positions {
		p, v := &e.dust.Positions[i], &e.vel[i]
		*p = p.Add(*v)
		if p[1] > dustTop {
			p[1] = 0
		}
		if math32.Abs(p[0]) > dustHalfX {
			v[0] = -v[0]
		}
		if math32.Abs(p[2]) > dustHalfZ {
			v[2] = -v[2]
		}
	}
	for i, n := range e.books {
		bp := e.params[i]
		tr := e.scene.Transform(n)
		tr.Position[1] += math32.Sin(t*bp.Speed+bp.Offset) * 0.001
		tr.Rotation[0] += 0.002
		tr.Rotation[1] += 0.003
		e.scene.SetTransform(n, tr)
	}
}

// SetVisible shows or hides dust and books together.
func (e *Effects) SetVisible(on bool) {
	e.visible = on
	e.dust.Visible = on
	for _, n := range e.books {
		e.scene.SetVisible(n, on)
	}
	e.log.Info("particles", "visible", on)
}

func (e *Effects) Visible() bool { return e.visible }

// Dust returns the live mote positions.
func (e *Effects) Dust() []softgl.Vec3 { return e.dust.Positions }

// Books returns the book nodes and their parameters.
func (e *Effects) Books() ([]softgl.NodeID, []BookParams) { return e.books, e.params }

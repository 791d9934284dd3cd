package scene

import (
	"image"

	"github.com/chewxy/math32"

	"classroom/vclass/softgl"
)

// Display surface placement.
const (
	DisplayWidth  = 5.8
	DisplayHeight = 4.2
)

var displayCenter = softgl.V3(0, 2.3, -7.2)

// Display is the board-mounted plane that shows the document raster. The
// raster is both its colour map and its emissive map, so pages stay readable
// under any time-of-day setting.
type Display struct {
	scene *softgl.Scene
	node  softgl.NodeID
	mesh  softgl.MeshID
	tex   *softgl.Texture
	light int
}

func newDisplay(scene *softgl.Scene, parent softgl.NodeID) *Display {
	d := &Display{scene: scene, tex: &softgl.Texture{}}
	d.node = scene.AddNode(parent, softgl.At(displayCenter[0], displayCenter[1], displayCenter[2]))
	d.mesh = scene.AddMesh(softgl.Mesh{
		Node:     d.node,
		Geometry: softgl.Plane(DisplayWidth, DisplayHeight, 1, 1),
		Material: softgl.Material{
			Color:             softgl.Hex(0xffffff),
			Texture:           d.tex,
			Emissive:          softgl.Hex(0xffffff),
			EmissiveMap:       true,
			EmissiveIntensity: 0.7,
		},
	})

	frame := scene.AddNode(parent, softgl.At(0, 2.3, -7.25))
	scene.AddMesh(softgl.Mesh{Node: frame, Geometry: softgl.Box(6.0, 4.4, 0.08), Material: softgl.Material{Color: softgl.Hex(0x1a1a1a)}})

	scene.Lights = append(scene.Lights, softgl.Light{
		Kind:      softgl.LightSpot,
		Color:     softgl.Hex(0xffffff),
		Intensity: 1.5,
		Position:  softgl.V3(0, 3, -6),
		Target:    displayCenter,
		Angle:     math32.Pi / 8,
		Penumbra:  0.2,
		Decay:     1,
		Distance:  5,
	})
	d.light = len(scene.Lights) - 1
	return d
}

// Upload copies img into the display texture.
func (d *Display) Upload(img image.Image) { d.tex.Upload(img) }

// SetBrightness sets the emissive intensity.
func (d *Display) SetBrightness(v float32) {
	d.scene.Material(d.mesh).EmissiveIntensity = v
}

func (d *Display) Brightness() float32 { return d.scene.Material(d.mesh).EmissiveIntensity }

func (d *Display) Mesh() softgl.MeshID { return d.mesh }

func (d *Display) Texture() *softgl.Texture { return d.tex }

// Light returns the display spotlight.
func (d *Display) Light() softgl.Light { return d.scene.Lights[d.light] }

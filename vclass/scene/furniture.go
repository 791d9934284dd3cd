package scene

import (
	"image/color"

	"github.com/chewxy/math32"

	"classroom/vclass/softgl"
	"classroom/vclass/textures"
)

// deskParts are shared by every desk and chair.
type deskParts struct {
	top, leg, storage          *softgl.Geometry
	seat, back, chairLeg       *softgl.Geometry
	wood, legMat, chair, metal softgl.Material
}

func (c *Classroom) buildDesks(wood *softgl.Texture) {
	p := deskParts{
		top:      softgl.Box(1.2, 0.05, 0.8),
		leg:      softgl.Box(0.08, 0.7, 0.08),
		storage:  softgl.Box(1.0, 0.15, 0.6),
		seat:     softgl.Box(0.5, 0.05, 0.5),
		back:     softgl.Box(0.5, 0.5, 0.05),
		chairLeg: softgl.Cylinder(0.03, 0.03, 0.45, 8),
		wood:     softgl.Material{Color: softgl.Hex(0xffffff), Texture: wood, CastShadow: true, ReceiveShadow: true},
		legMat:   solid(0x8b4513),
		chair:    solid(0x4169e1),
		metal:    solid(0x696969),
	}
	group := c.scene.AddNode(c.root, softgl.Transform{})
	for row := range Rows {
		for col := range Columns {
			x, z := DeskPosition(row, col)
			c.desk(group, p, x, z)
			c.chair(group, p, x, z+0.5)
		}
	}
}

func (c *Classroom) desk(parent softgl.NodeID, p deskParts, x, z float32) {
	n := c.scene.AddNode(parent, softgl.At(x, 0, z))
	c.part(n, softgl.At(0, 0.7, 0), p.top, p.wood)
	for _, lx := range [2]float32{-0.5, 0.5} {
		for _, lz := range [2]float32{-0.35, 0.35} {
			c.part(n, softgl.At(lx, 0.35, lz), p.leg, p.legMat)
		}
	}
	c.part(n, softgl.At(0, 0.45, 0), p.storage, p.wood)
}

func (c *Classroom) chair(parent softgl.NodeID, p deskParts, x, z float32) {
	n := c.scene.AddNode(parent, softgl.At(x, 0, z))
	c.part(n, softgl.At(0, 0.45, 0), p.seat, p.chair)
	c.part(n, softgl.At(0, 0.65, -0.225), p.back, p.chair)
	for _, lx := range [2]float32{-0.2, 0.2} {
		for _, lz := range [2]float32{-0.2, 0.2} {
			c.part(n, softgl.At(lx, 0.225, lz), p.chairLeg, p.metal)
		}
	}
}

func (c *Classroom) buildBlackboard(tex textures.Set) {
	n := c.scene.AddNode(c.root, softgl.Transform{})
	board := softgl.Material{Color: softgl.Hex(0xffffff), Texture: softgl.NewTexture(tex.Blackboard), CastShadow: true, ReceiveShadow: true}
	c.blackboard = c.part(n, softgl.At(0, 2, -7.4), softgl.Box(6, 2.5, 0.1), board)

	frame := solid(0x8b4513)
	rail := softgl.Box(6.2, 0.15, 0.15)
	side := softgl.Box(0.15, 2.8, 0.15)
	c.part(n, softgl.At(0, 3.3, -7.35), rail, frame)
	c.part(n, softgl.At(0, 0.7, -7.35), rail, frame)
	c.part(n, softgl.At(-3.1, 2, -7.35), side, frame)
	c.part(n, softgl.At(3.1, 2, -7.35), side, frame)
	c.part(n, softgl.At(0, 0.65, -7.3), softgl.Box(6, 0.1, 0.2), frame)
}

func (c *Classroom) buildTeacherDesk(wood *softgl.Texture) {
	n := c.scene.AddNode(c.root, softgl.At(-3.5, 0, -6))
	top := softgl.Material{Color: softgl.Hex(0xffffff), Texture: wood, CastShadow: true, ReceiveShadow: true}
	c.part(n, softgl.At(0, 0.8, 0), softgl.Box(2.0, 0.08, 1.2), top)

	legs := solid(0x654321)
	leg := softgl.Box(0.1, 0.8, 0.1)
	for _, lx := range [2]float32{-0.9, 0.9} {
		for _, lz := range [2]float32{-0.5, 0.5} {
			c.part(n, softgl.At(lx, 0.4, lz), leg, legs)
		}
	}
	c.part(n, softgl.At(0.45, 0.62, 0), softgl.Box(0.8, 0.22, 1.0), top)
}

// Lettering heights in world units.
const (
	bstHeight    = 1.2
	courseHeight = 0.6
)

// buildLettering places the "BST" sign on the left wall and the course title
// to the right of the board. Each line is a transparent quad sized to the
// rendered text.
func (c *Classroom) buildLettering() {
	gold := color.RGBA{0xff, 0xd7, 0x00, 0xff}
	c.sign(c.root, "BST", gold, 0xffd700, bstHeight,
		softgl.At(-RoomWidth/2+0.2, 2.5, 0).WithRotation(0, math32.Pi/2, 0), false)

	blue := color.RGBA{0x4a, 0x90, 0xe2, 0xff}
	lines := [...]string{"Bilgisayar", "Grafikleri"}
	gap := float32(courseHeight * 1.2)
	top := 2 + gap*float32(len(lines)-1)/2
	for i, line := range lines {
		c.sign(c.root, line, blue, 0x4a90e2, courseHeight,
			softgl.At(3.5, top-gap*float32(i), -7.3), true)
	}
}

// sign adds one line of lettering of the given height. Left-anchored signs
// grow to +x from the transform origin; others are centred on it.
func (c *Classroom) sign(parent softgl.NodeID, text string, ink color.RGBA, glow uint32, height float32, at softgl.Transform, left bool) softgl.MeshID {
	img := textures.Lettering(text, 96, ink, 8)
	width := height * textures.Aspect(img)
	g := softgl.Plane(width, height, 1, 1)
	if left {
		g = softgl.Transformed(g, softgl.At(width/2, 0, 0))
	}
	return c.part(parent, at, g, softgl.Material{
		Color:             softgl.Hex(0xffffff),
		Texture:           softgl.NewTexture(img),
		Emissive:          softgl.Hex(glow),
		EmissiveIntensity: 0.3,
		Transparent:       true,
		Opacity:           1,
		Side:              softgl.SideDouble,
	})
}

package scene

import (
	"github.com/chewxy/math32"

	"classroom/vclass/softgl"
	"classroom/vclass/textures"
)

// WindowZ are the window centres along the right wall.
var WindowZ = [...]float32{-4, 0, 4}

const windowY = 2.3

func (c *Classroom) buildRoom(tex textures.Set) {
	const (
		w, d, h = RoomWidth, RoomDepth, RoomHeight
		halfPi  = math32.Pi / 2
	)
	floor := softgl.Material{Color: softgl.Hex(0xffffff), Texture: softgl.NewTexture(tex.Floor), Repeat: softgl.V2(4, 3), ReceiveShadow: true}
	c.part(c.root, softgl.Transform{}.WithRotation(-halfPi, 0, 0), softgl.Plane(w, d, 1, 1), floor)

	ceiling := softgl.Material{Color: softgl.Hex(0xf8f8f8), Side: softgl.SideDouble}
	c.part(c.root, softgl.At(0, h, 0).WithRotation(halfPi, 0, 0), softgl.Plane(w, d, 1, 1), ceiling)

	wallTex := softgl.NewTexture(tex.Wall)
	long := softgl.Material{Color: softgl.Hex(0xffffff), Texture: wallTex, Repeat: softgl.V2(4, 2), ReceiveShadow: true}
	short := long
	short.Repeat = softgl.V2(3, 2)

	wide, deep := softgl.Plane(w, h, 1, 1), softgl.Plane(d, h, 1, 1)
	c.part(c.root, softgl.At(0, h/2, -d/2), wide, long)
	c.part(c.root, softgl.At(0, h/2, d/2).WithRotation(0, math32.Pi, 0), wide, long)
	c.part(c.root, softgl.At(-w/2, h/2, 0).WithRotation(0, halfPi, 0), deep, short)
	c.part(c.root, softgl.At(w/2, h/2, 0).WithRotation(0, -halfPi, 0), deep, short)
}

// buildWindows puts three framed panes on the inside face of the right wall.
func (c *Classroom) buildWindows() {
	frameGeo := softgl.Box(0.1, 1.8, 1.5)
	glassGeo := softgl.Plane(1.3, 1.6, 1, 1)
	hBar := softgl.Box(0.05, 0.05, 1.3)
	vBar := softgl.Box(0.05, 1.6, 0.05)

	wood := solid(0x8b4513)
	glass := softgl.Material{Color: softgl.Hex(0x87ceeb), Transparent: true, Opacity: 0.3, Side: softgl.SideDouble}

	x := float32(RoomWidth/2 - 0.05)
	for _, z := range WindowZ {
		win := c.scene.AddNode(c.root, softgl.At(x, windowY, z))
		c.part(win, softgl.Transform{}, frameGeo, wood)
		c.part(win, softgl.At(-0.06, 0, 0).WithRotation(0, -math32.Pi/2, 0), glassGeo, glass)
		c.part(win, softgl.At(-0.08, 0, 0), hBar, wood)
		c.part(win, softgl.At(-0.08, 0, 0), vBar, wood)
	}
}

// Package scene builds the static classroom (room shell, windows, furniture,
// board lettering and the document display) and animates the seated students
// and the standing teacher.
package scene

import (
	"log/slog"
	"math/rand/v2"

	"classroom/vclass/softgl"
	"classroom/vclass/textures"
)

// Room extents. The floor is centred on the origin.
const (
	RoomWidth  = 20.0
	RoomDepth  = 15.0
	RoomHeight = 4.0
)

// Desk grid layout, shared by furniture and students.
const (
	Rows        = 5
	Columns     = 4
	DeskSpacing = 2.2
	RowSpacing  = 2.0
	startZ      = 3
)

// Sky is both the background and the fog colour.
const Sky = 0x87ceeb

// DeskPosition returns the (x, z) of the desk at row, col.
func DeskPosition(row, col int) (float32, float32) {
	startX := -float32(Columns-1) * DeskSpacing / 2
	return startX + float32(col)*DeskSpacing, startZ - float32(row)*RowSpacing
}

// Classroom is the built scene content.
type Classroom struct {
	log   *slog.Logger
	scene *softgl.Scene

	root       softgl.NodeID
	blackboard softgl.MeshID
	display    *Display

	students []Student
	teacher  Teacher
}

// New populates scene from the generated texture set. rng picks palettes and
// per-character phases; the same seed builds the same classroom.
func New(scene *softgl.Scene, tex textures.Set, rng *rand.Rand, log *slog.Logger) *Classroom {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Classroom{
		log:   log.With("component", "scene"),
		scene: scene,
		root:  scene.AddNode(softgl.Root, softgl.Transform{}),
	}
	scene.Background = softgl.Hex(Sky)
	scene.Fog = softgl.Fog{Enabled: true, Color: softgl.Hex(Sky), Near: 20, Far: 50}

	c.buildRoom(tex)
	c.buildWindows()
	wood := softgl.NewTexture(tex.Wood)
	c.buildDesks(wood)
	c.buildBlackboard(tex)
	c.buildTeacherDesk(wood)
	c.buildLettering()
	c.display = newDisplay(scene, c.root)
	c.buildStudents(rng)
	c.buildTeacher(rng)

	scene.UpdateWorld()
	c.log.Info("classroom built", "nodes", scene.NodeCount(), "meshes", scene.MeshCount(), "students", len(c.students))
	return c
}

// Display returns the document display surface.
func (c *Classroom) Display() *Display { return c.display }

// Blackboard returns the board surface mesh.
func (c *Classroom) Blackboard() softgl.MeshID { return c.blackboard }

// Update animates the characters for elapsed seconds t.
func (c *Classroom) Update(t float32) {
	for i := range c.students {
		c.students[i].update(c.scene, t)
	}
	c.teacher.update(c.scene, t)
}

// TeacherBounds is the teacher's world-space box.
func (c *Classroom) TeacherBounds() softgl.AABB {
	return c.scene.Bounds(c.teacher.node)
}

// Students returns the seated students in row-major desk order.
func (c *Classroom) Students() []Student { return c.students }

func (c *Classroom) Teacher() Teacher { return c.teacher }

// part adds a mesh on its own child node of parent.
func (c *Classroom) part(parent softgl.NodeID, t softgl.Transform, g *softgl.Geometry, m softgl.Material) softgl.MeshID {
	n := c.scene.AddNode(parent, t)
	return c.scene.AddMesh(softgl.Mesh{Node: n, Geometry: g, Material: m})
}

// solid is an untextured material that casts shadows.
func solid(hex uint32) softgl.Material {
	return softgl.Material{Color: softgl.Hex(hex), CastShadow: true}
}

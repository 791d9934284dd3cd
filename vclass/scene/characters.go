package scene

import (
	"math/rand/v2"
	"sync"

	"github.com/chewxy/math32"

	"classroom/internal/mathutil"
	"classroom/vclass/softgl"
)

var (
	SkinTones   = []uint32{0xffe0bd, 0xf1c27d, 0xe0ac69, 0xc68642, 0x8d5524, 0x6b4423}
	ShirtColors = []uint32{0xff6b6b, 0x4ecdc4, 0x45b7d1, 0x96ceb4, 0xffeaa7, 0xdda15e, 0xbc6c25}
	hairColors  = [2]uint32{0x2c2c2c, 0x654321}
)

const (
	seatY          = 0.45
	teacherShirt   = 0x3498db
	teacherYaw     = math32.Pi / 8
	headNodRate    = 0.7
	headNodAmount  = 0.05
	armSwingFactor = 1.2
	armSwingAmount = 0.3
)

// SwayParams drive a seated student's idle motion.
type SwayParams struct {
	Speed  float32
	Amount float32
	Offset float32
}

// GestureParams drive the teacher's turning and arm gesture.
type GestureParams struct {
	Speed  float32
	Amount float32
}

// Student is one seated character.
type Student struct {
	Sway SwayParams

	node softgl.NodeID
	head softgl.NodeID
}

func (s *Student) update(sc *softgl.Scene, t float32) {
	tr := sc.Transform(s.node)
	tr.Position[1] = seatY + math32.Sin(t*s.Sway.Speed+s.Sway.Offset)*s.Sway.Amount
	sc.SetTransform(s.node, tr)

	head := sc.Transform(s.head)
	head.Rotation[0] = math32.Sin(t*s.Sway.Speed*headNodRate+s.Sway.Offset) * headNodAmount
	sc.SetTransform(s.head, head)
}

func (s Student) Node() softgl.NodeID { return s.node }
func (s Student) Head() softgl.NodeID { return s.head }

// Teacher is the standing character at the front.
type Teacher struct {
	Gesture GestureParams

	node     softgl.NodeID
	rightArm softgl.NodeID
}

func (t *Teacher) update(sc *softgl.Scene, now float32) {
	tr := sc.Transform(t.node)
	tr.Rotation[1] = teacherYaw + math32.Sin(now*t.Gesture.Speed)*t.Gesture.Amount
	sc.SetTransform(t.node, tr)

	arm := sc.Transform(t.rightArm)
	arm.Rotation[0] = math32.Sin(now*t.Gesture.Speed*armSwingFactor) * armSwingAmount
	sc.SetTransform(t.rightArm, arm)
}

func (t Teacher) Node() softgl.NodeID     { return t.node }
func (t Teacher) RightArm() softgl.NodeID { return t.rightArm }

// body is the shape set for one character pose.
type body struct {
	head, hair, torso, arm, hand, leg, foot *softgl.Geometry
}

var (
	seated = sync.OnceValue(func() body {
		return body{
			head:  softgl.Sphere(0.15, 16, 16, softgl.SphereOpts{}),
			hair:  softgl.Sphere(0.16, 16, 16, softgl.SphereOpts{ThetaLength: math32.Pi / 2}),
			torso: softgl.Cylinder(0.12, 0.15, 0.4, 16),
			arm:   softgl.Cylinder(0.04, 0.04, 0.3, 8),
			hand:  softgl.Sphere(0.05, 8, 8, softgl.SphereOpts{}),
			leg:   softgl.Cylinder(0.06, 0.05, 0.3, 8),
		}
	})
	standing = sync.OnceValue(func() body {
		return body{
			head:  softgl.Sphere(0.15, 16, 16, softgl.SphereOpts{}),
			hair:  softgl.Sphere(0.16, 16, 16, softgl.SphereOpts{ThetaLength: math32.Pi / 2}),
			torso: softgl.Cylinder(0.12, 0.15, 0.4, 16),
			arm:   softgl.Cylinder(0.05, 0.04, 0.5, 8),
			hand:  softgl.Sphere(0.06, 8, 8, softgl.SphereOpts{}),
			leg:   softgl.Cylinder(0.08, 0.06, 0.8, 8),
			foot:  softgl.Box(0.12, 0.05, 0.2),
		}
	})
)

func (c *Classroom) buildStudents(rng *rand.Rand) {
	group := c.scene.AddNode(c.root, softgl.Transform{})
	c.students = make([]Student, 0, Rows*Columns)
	for row := range Rows {
		for col := range Columns {
			x, z := DeskPosition(row, col)
			skin := mathutil.RandomColor(rng, SkinTones, SkinTones[0])
			shirt := mathutil.RandomColor(rng, ShirtColors, ShirtColors[0])
			at := softgl.At(x, seatY, z+0.3).WithRotation(0, (rng.Float32()-0.5)*0.3, 0)

			n := c.scene.AddNode(group, at)
			s := Student{
				node: n,
				Sway: SwayParams{
					Speed:  mathutil.RandomRange(rng, 0.5, 1),
					Amount: mathutil.RandomRange(rng, 0.005, 0.01),
					Offset: mathutil.RandomRange(rng, 0, 2*math32.Pi),
				},
			}
			s.head, _ = c.character(n, skin, shirt, hairColors[rng.IntN(2)], true)
			c.students = append(c.students, s)
		}
	}
}

func (c *Classroom) buildTeacher(rng *rand.Rand) {
	group := c.scene.AddNode(c.root, softgl.Transform{})
	n := c.scene.AddNode(group, softgl.At(2, 0, -6.5).WithRotation(0, teacherYaw, 0))
	t := Teacher{node: n, Gesture: GestureParams{Speed: 0.8, Amount: 0.2}}
	_, t.rightArm = c.character(n, SkinTones[2], teacherShirt, hairColors[rng.IntN(2)], false)
	c.teacher = t
}

// character attaches a body to n and returns the head and right arm nodes.
func (c *Classroom) character(n softgl.NodeID, skin, shirt, hair uint32, sit bool) (head, rightArm softgl.NodeID) {
	skinMat, shirtMat := solid(skin), solid(shirt)
	if sit {
		b := seated()
		head = c.scene.AddNode(n, softgl.At(0, 0.95, 0))
		c.scene.AddMesh(softgl.Mesh{Node: head, Geometry: b.head, Material: skinMat})
		c.part(n, softgl.At(0, 0.65, 0), b.torso, shirtMat)
		c.part(n, softgl.At(-0.18, 0.65, 0.1).WithRotation(0, 0, math32.Pi/6), b.arm, shirtMat)
		rightArm = c.scene.AddNode(n, softgl.At(0.18, 0.65, 0.1).WithRotation(0, 0, -math32.Pi/6))
		c.scene.AddMesh(softgl.Mesh{Node: rightArm, Geometry: b.arm, Material: shirtMat})
		c.part(n, softgl.At(-0.25, 0.75, 0.3), b.hand, skinMat)
		c.part(n, softgl.At(0.25, 0.75, 0.3), b.hand, skinMat)
		pants := solid(0x2c3e50)
		c.part(n, softgl.At(-0.08, 0.35, 0), b.leg, pants)
		c.part(n, softgl.At(0.08, 0.35, 0), b.leg, pants)
		c.part(n, softgl.At(0, 1.02, 0), b.hair, solid(hair))
		return head, rightArm
	}

	b := standing()
	head = c.scene.AddNode(n, softgl.At(0, 1.55, 0))
	c.scene.AddMesh(softgl.Mesh{Node: head, Geometry: b.head, Material: skinMat})
	c.part(n, softgl.At(0, 1.2, 0), b.torso, shirtMat)
	c.part(n, softgl.At(-0.2, 1.15, 0).WithRotation(0, 0, math32.Pi/12), b.arm, shirtMat)
	rightArm = c.scene.AddNode(n, softgl.At(0.2, 1.15, 0).WithRotation(0, 0, -math32.Pi/12))
	c.scene.AddMesh(softgl.Mesh{Node: rightArm, Geometry: b.arm, Material: shirtMat})
	c.part(n, softgl.At(-0.23, 0.88, 0), b.hand, skinMat)
	c.part(n, softgl.At(0.23, 0.88, 0), b.hand, skinMat)
	pants := solid(0x34495e)
	c.part(n, softgl.At(-0.1, 0.5, 0), b.leg, pants)
	c.part(n, softgl.At(0.1, 0.5, 0), b.leg, pants)
	shoes := solid(0x2c2c2c)
	c.part(n, softgl.At(-0.1, 0.05, 0.05), b.foot, shoes)
	c.part(n, softgl.At(0.1, 0.05, 0.05), b.foot, shoes)
	c.part(n, softgl.At(0, 1.62, 0), b.hair, solid(hair))
	return head, rightArm
}

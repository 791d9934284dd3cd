package softgl

import "github.com/go-gl/mathgl/mgl32"

// Side selects which triangle faces are drawn.
type Side uint8

const (
	SideFront Side = iota
	SideDouble
)

// Material is a surface description in the spirit of a standard PBR material,
// reduced to what a per-vertex lit rasterizer can honour.
type Material struct {
	Color   Color
	Texture *Texture
	Repeat  Vec2 // UV scale, zero means (1, 1)

	Emissive          Color
	EmissiveIntensity float32
	// EmissiveMap makes the texture the emissive source (display surfaces).
	EmissiveMap bool

	// Opacity in 0..1. Zero is treated as opaque unless Transparent is set.
	Opacity     float32
	Transparent bool

	Unlit bool
	Side  Side
	Wire  bool

	// CastShadow puts the mesh into the shadow maps of casting lights;
	// ReceiveShadow darkens it where those maps hide it from a light.
	CastShadow    bool
	ReceiveShadow bool
}

func (m Material) opacity() float32 {
	if !m.Transparent {
		return 1
	}
	return mgl32.Clamp(m.Opacity, 0, 1)
}

func (m Material) repeat() Vec2 {
	if m.Repeat == (Vec2{}) {
		return V2(1, 1)
	}
	return m.Repeat
}

// LightKind selects a light model.
type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightSpot
)

// Light is one light source. Unused fields are ignored per kind.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float32

	Position Vec3
	Target   Vec3

	// Distance is the cut-off range of point and spot lights; zero means unlimited.
	Distance float32
	Decay    float32
	// Angle is the spot half-angle in radians; Penumbra is the 0..1 soft edge.
	Angle    float32
	Penumbra float32

	CastShadow bool
	Disabled   bool
}

// Fog is linear distance fog.
type Fog struct {
	Enabled   bool
	Color     Color
	Near, Far float32
}

// Camera describes the viewing transform.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad float32
	Near    float32
	Far     float32
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect float32) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = mgl32.DegToRad(60)
	}
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 100
	}
	return mgl32.Perspective(fov, aspect, near, far)
}

// Vertex is a mesh vertex in object space.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	UV     Vec2
}

// Geometry is an indexed triangle list. Meshes may share one geometry.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   AABB
	// Edges, when set, is drawn instead of triangles by wire materials.
	Edges []uint32
}

// ComputeBounds refreshes Bounds from the vertices.
func (g *Geometry) ComputeBounds() {
	b := EmptyBox()
	for _, v := range g.Vertices {
		b = b.Extend(v.Pos)
	}
	g.Bounds = b
}

// NodeID identifies a scene node. Root is the implicit parent of top-level nodes.
type NodeID int32

const Root NodeID = -1

type node struct {
	parent  NodeID
	local   Transform
	visible bool
	world   Mat4
}

// MeshID identifies a mesh slot.
type MeshID int32

// Mesh attaches geometry and material to a node.
type Mesh struct {
	Node     NodeID
	Geometry *Geometry
	Material Material
}

// PointCloud is a set of world-space points drawn as small squares.
type PointCloud struct {
	Positions []Vec3
	Color     Color
	Size      int
	Opacity   float32
	Additive  bool
	Visible   bool
}

// Scene is a node arena plus meshes, point clouds and lights. Nodes must be
// added after their parent, which keeps world-matrix evaluation a single pass.
type Scene struct {
	Camera     Camera
	Lights     []Light
	Fog        Fog
	Background Color

	nodes  []node
	meshes []Mesh
	points []*PointCloud
}

// NewScene allocates an empty scene with room for the given counts.
func NewScene(nodeHint, meshHint int) *Scene {
	return &Scene{
		Camera: Camera{
			Position: V3(0, 0, 3),
			Up:       V3(0, 1, 0),
			FOVYRad:  mgl32.DegToRad(60),
			Near:     0.1,
			Far:      100,
		},
		Background: RGB(0, 0, 0),
		nodes:      make([]node, 0, max(nodeHint, 0)),
		meshes:     make([]Mesh, 0, max(meshHint, 0)),
	}
}

// AddNode adds a child of parent and returns its id.
func (s *Scene) AddNode(parent NodeID, t Transform) NodeID {
	if parent != Root && !s.validNode(parent) {
		parent = Root
	}
	s.nodes = append(s.nodes, node{parent: parent, local: t, visible: true})
	return NodeID(len(s.nodes) - 1)
}

func (s *Scene) validNode(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

// NodeCount returns the number of nodes.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// Transform returns the local transform of a node.
func (s *Scene) Transform(id NodeID) Transform {
	if !s.validNode(id) {
		return Transform{}
	}
	return s.nodes[id].local
}

// SetTransform replaces the local transform of a node.
func (s *Scene) SetTransform(id NodeID, t Transform) {
	if !s.validNode(id) {
		return
	}
	s.nodes[id].local = t
}

// SetVisible hides or shows a node and its subtree.
func (s *Scene) SetVisible(id NodeID, visible bool) {
	if !s.validNode(id) {
		return
	}
	s.nodes[id].visible = visible
}

// Visible reports whether a node and all its ancestors are visible.
func (s *Scene) Visible(id NodeID) bool {
	for id != Root {
		if !s.validNode(id) || !s.nodes[id].visible {
			return false
		}
		id = s.nodes[id].parent
	}
	return true
}

// AddMesh adds a mesh and returns its id.
func (s *Scene) AddMesh(m Mesh) MeshID {
	if m.Geometry == nil {
		return -1
	}
	if m.Node != Root && !s.validNode(m.Node) {
		m.Node = Root
	}
	s.meshes = append(s.meshes, m)
	return MeshID(len(s.meshes) - 1)
}

// Material returns a pointer to a mesh material for in-place edits.
func (s *Scene) Material(id MeshID) *Material {
	if id < 0 || int(id) >= len(s.meshes) {
		return nil
	}
	return &s.meshes[id].Material
}

// MeshCount returns the number of meshes.
func (s *Scene) MeshCount() int { return len(s.meshes) }

// AddPoints registers a point cloud. The caller keeps ownership of p and may
// mutate its positions between frames.
func (s *Scene) AddPoints(p *PointCloud) {
	if p != nil {
		s.points = append(s.points, p)
	}
}

// UpdateWorld recomputes world matrices for every node.
func (s *Scene) UpdateWorld() {
	for i := range s.nodes {
		n := &s.nodes[i]
		local := n.local.Matrix()
		if n.parent == Root {
			n.world = local
			continue
		}
		n.world = s.nodes[n.parent].world.Mul4(local)
	}
}

// World returns the last computed world matrix of a node.
func (s *Scene) World(id NodeID) Mat4 {
	if !s.validNode(id) {
		return mgl32.Ident4()
	}
	return s.nodes[id].world
}

func (s *Scene) isDescendant(id, ancestor NodeID) bool {
	for id != Root {
		if id == ancestor {
			return true
		}
		if !s.validNode(id) {
			return false
		}
		id = s.nodes[id].parent
	}
	return ancestor == Root
}

// Bounds returns the world-space box of every mesh under node, refreshing world
// matrices first. The result is empty when the subtree has no geometry.
func (s *Scene) Bounds(id NodeID) AABB {
	s.UpdateWorld()
	b := EmptyBox()
	for _, m := range s.meshes {
		if !s.isDescendant(m.Node, id) {
			continue
		}
		if m.Geometry.Bounds.Empty() {
			m.Geometry.ComputeBounds()
		}
		b = b.Union(m.Geometry.Bounds.Transformed(s.World(m.Node)))
	}
	return b
}

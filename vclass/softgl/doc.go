// Package softgl is the software 3D pipeline that draws the classroom.
//
// It renders a node hierarchy of triangle meshes, point clouds and wire helpers
// into a caller-provided Target. There is no GPU abstraction.
//
// Pipeline (fixed):
//
//	Nodes → World transform → Vertex lighting → Clip (near plane) → Cull →
//	Rasterize (perspective-correct UV, depth test) → Fog → Blend → Target.
//
// Lighting is evaluated per vertex (Gouraud) against ambient, directional,
// point and spot lights with three-style distance/decay falloff. Textures are
// sampled nearest-texel from a mip chain chosen per triangle.
//
// Math uses float32 vectors and matrices from mgl32 in column-major order.
package softgl

// Package model builds GPU-ready meshes from wall primitives.
package model

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// TextureGroup is a contiguous index range drawn with one texture.
type TextureGroup struct {
	Texture    string // Texture reference, empty for untextured walls
	StartIndex int32
	IndexCount int32
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []TextureGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// Thickness is the wall depth. Zero builds double-sided planes.
	Thickness float32
	// TextureScale is world units per texture repeat. Zero means 1.
	TextureScale float32
}

func (b *Bounds) update(p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

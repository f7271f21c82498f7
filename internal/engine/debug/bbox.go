package debug

import (
	"github.com/Faultbox/sectorview/internal/world"
)

// BBoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding widens selection boxes so they do not z-fight the wall.
const DefaultBBoxPadding = 0.02

// boxEdges lists unit cube corner index pairs; corner bits are x, y, z.
var boxEdges = [12][2]int{
	// Bottom face
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	// Top face
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	// Vertical edges
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// WallWireframe creates line vertices outlining the box of p.
// thickness is the wall depth and padding expands the box on all sides.
func WallWireframe(p world.WallPrimitive, thickness, padding float32) []LineVertex {
	p.Length += 2 * padding
	p.Height += 2 * padding
	mtx := p.Transform(thickness + 2*padding)

	var corners [8][3]float32
	for i := range corners {
		local := [3]float32{-0.5, -0.5, -0.5}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				local[axis] = 0.5
			}
		}
		corners[i] = mtx.TransformPoint(local)
	}

	vertices := make([]LineVertex, 0, BBoxWireframeVertexCount)
	for _, e := range boxEdges {
		seg := line(corners[e[0]], corners[e[1]], SelectColor)
		vertices = append(vertices, seg[:]...)
	}
	return vertices
}

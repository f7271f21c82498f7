package model

import (
	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/math"
)

// face is one side of the unit cube centred on the origin.
// u x v == normal, so corners walk counter-clockwise seen from outside.
type face struct {
	normal, u, v math.Vec3
}

var boxFaces = [6]face{
	{normal: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Z: -1}, u: math.Vec3{X: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{X: 1}, u: math.Vec3{Z: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Y: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: -1}},
	{normal: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
}

var quadCorners = [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}

// BuildWallMesh turns primitives into boxes grouped by texture.
// Groups appear in order of first use; primitives keep their order within a group.
func BuildWallMesh(prims []world.WallPrimitive, opts BuildOptions) *Mesh {
	scale := opts.TextureScale
	if scale <= 0 {
		scale = 1
	}
	faces := boxFaces[:]
	if opts.Thickness <= 0 {
		faces = boxFaces[:2]
	}

	var order []string
	byTexture := make(map[string][]int)
	for i, p := range prims {
		if _, ok := byTexture[p.Texture]; !ok {
			order = append(order, p.Texture)
		}
		byTexture[p.Texture] = append(byTexture[p.Texture], i)
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, len(prims)*len(faces)*4),
		Indices:  make([]uint32, 0, len(prims)*len(faces)*6),
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
	}

	for _, tex := range order {
		group := TextureGroup{Texture: tex, StartIndex: int32(len(mesh.Indices))}
		for _, i := range byTexture[tex] {
			mesh.addBox(prims[i], faces, opts.Thickness, scale)
		}
		group.IndexCount = int32(len(mesh.Indices)) - group.StartIndex
		mesh.Groups = append(mesh.Groups, group)
	}

	if len(mesh.Vertices) == 0 {
		mesh.Bounds = Bounds{}
	}
	return mesh
}

func (m *Mesh) addBox(p world.WallPrimitive, faces []face, thickness, texScale float32) {
	model := p.Transform(thickness)
	rotation := math.RotateY(-math.Radians(p.Yaw))
	size := math.Vec3{X: p.Length, Y: p.Height, Z: thickness}

	for _, f := range faces {
		base := uint32(len(m.Vertices))
		normal := rotation.TransformPoint(vec(f.normal))
		sizeU := axisSize(f.u, size)
		sizeV := axisSize(f.v, size)

		for _, c := range quadCorners {
			local := f.normal.Scale(0.5).Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1]))
			pos := model.TransformPoint(vec(local))
			m.Vertices = append(m.Vertices, Vertex{
				Position: pos,
				Normal:   normal,
				// Image rows run top to bottom, so v grows downward.
				TexCoord: [2]float32{(c[0] + 0.5) * sizeU / texScale, (0.5 - c[1]) * sizeV / texScale},
			})
			m.Bounds.update(pos)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}

// axisSize returns the box extent along a unit axis.
func axisSize(axis, size math.Vec3) float32 {
	return abs(axis.X)*size.X + abs(axis.Y)*size.Y + abs(axis.Z)*size.Z
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func vec(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

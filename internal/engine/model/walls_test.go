package model

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/formats"
	"github.com/Faultbox/sectorview/pkg/math"
)

func prim(x0, z0, x1, z1 float32, texture string) world.WallPrimitive {
	s := formats.Sector{FloorHeight: 0, CeilingHeight: 3}
	w := formats.Wall{Start: math.Vec2{X: x0, Y: z0}, End: math.Vec2{X: x1, Y: z1}, PortalID: -1, Texture: texture}
	return world.NewWallPrimitive(s, w)
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestBuildWallMesh_Box(t *testing.T) {
	mesh := BuildWallMesh([]world.WallPrimitive{prim(0, 0, 4, 0, "")}, BuildOptions{Thickness: 0.2})

	if len(mesh.Vertices) != 24 {
		t.Errorf("expected 24 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 36 {
		t.Errorf("expected 36 indices, got %d", len(mesh.Indices))
	}
	if len(mesh.Groups) != 1 || mesh.Groups[0].IndexCount != 36 || mesh.Groups[0].Texture != "" {
		t.Errorf("unexpected groups: %+v", mesh.Groups)
	}

	wantMin := [3]float32{0, 0, -0.1}
	wantMax := [3]float32{4, 3, 0.1}
	for i := 0; i < 3; i++ {
		if !near(mesh.Bounds.Min[i], wantMin[i]) || !near(mesh.Bounds.Max[i], wantMax[i]) {
			t.Fatalf("bounds = %v, want %v..%v", mesh.Bounds, wantMin, wantMax)
		}
	}
}

func TestBuildWallMesh_Plane(t *testing.T) {
	mesh := BuildWallMesh([]world.WallPrimitive{prim(0, 0, 0, 4, "")}, BuildOptions{})

	if len(mesh.Vertices) != 8 || len(mesh.Indices) != 12 {
		t.Errorf("expected 8 vertices and 12 indices, got %d and %d", len(mesh.Vertices), len(mesh.Indices))
	}
	for _, v := range mesh.Vertices {
		if !near(v.Position[0], 0) {
			t.Errorf("plane vertex off the wall line: %v", v.Position)
		}
	}
}

func TestBuildWallMesh_Groups(t *testing.T) {
	prims := []world.WallPrimitive{
		prim(0, 0, 4, 0, "brick"),
		prim(4, 0, 4, 4, "stone"),
		prim(4, 4, 0, 4, "brick"),
	}

	mesh := BuildWallMesh(prims, BuildOptions{Thickness: 0.1})

	if len(mesh.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(mesh.Groups))
	}
	want := []TextureGroup{
		{Texture: "brick", StartIndex: 0, IndexCount: 72},
		{Texture: "stone", StartIndex: 72, IndexCount: 36},
	}
	for i, g := range want {
		if mesh.Groups[i] != g {
			t.Errorf("group %d = %+v, want %+v", i, mesh.Groups[i], g)
		}
	}
}

func TestBuildWallMesh_Winding(t *testing.T) {
	mesh := BuildWallMesh([]world.WallPrimitive{prim(1, 1, 3, 4, "")}, BuildOptions{Thickness: 0.5})

	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]]
		b := mesh.Vertices[mesh.Indices[i+1]]
		c := mesh.Vertices[mesh.Indices[i+2]]

		ab := math.Vec3{X: b.Position[0] - a.Position[0], Y: b.Position[1] - a.Position[1], Z: b.Position[2] - a.Position[2]}
		ac := math.Vec3{X: c.Position[0] - a.Position[0], Y: c.Position[1] - a.Position[1], Z: c.Position[2] - a.Position[2]}
		n := math.Vec3{X: a.Normal[0], Y: a.Normal[1], Z: a.Normal[2]}

		if ab.Cross(ac).Dot(n) <= 0 {
			t.Errorf("triangle %d is not counter-clockwise around its normal %v", i/3, n)
		}
		if !near(n.Length(), 1) {
			t.Errorf("triangle %d normal is not unit length: %v", i/3, n)
		}
	}
}

func TestBuildWallMesh_TexCoords(t *testing.T) {
	mesh := BuildWallMesh([]world.WallPrimitive{prim(0, 0, 4, 0, "")}, BuildOptions{Thickness: 0.2, TextureScale: 2})

	// The +Z face spans the wall length and height.
	var maxU, maxV float32
	for _, v := range mesh.Vertices[:4] {
		maxU = max(maxU, v.TexCoord[0])
		maxV = max(maxV, v.TexCoord[1])
	}
	if !near(maxU, 2) || !near(maxV, 1.5) {
		t.Errorf("expected texcoords up to (2, 1.5), got (%v, %v)", maxU, maxV)
	}
}

func TestBuildWallMesh_Empty(t *testing.T) {
	mesh := BuildWallMesh(nil, BuildOptions{Thickness: 0.1})
	if len(mesh.Vertices) != 0 || len(mesh.Groups) != 0 {
		t.Errorf("expected empty mesh, got %d vertices %d groups", len(mesh.Vertices), len(mesh.Groups))
	}
	if mesh.Bounds != (Bounds{}) {
		t.Errorf("expected zero bounds, got %v", mesh.Bounds)
	}
}

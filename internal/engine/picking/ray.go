// Package picking provides ray casting against wall geometry.
package picking

import (
	gomath "math"

	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/math"
)

// minThickness stands in for zero-depth walls so the slab test has a volume.
const minThickness = 1e-3

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit is the nearest wall struck by a ray.
type Hit struct {
	Index    int // Into the primitive slice
	Distance float32
	Point    math.Vec3
}

// IntersectWall tests the ray against the box of p with the given depth.
// Returns the distance to intersection and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectWall(p world.WallPrimitive, thickness float32) (t float32, hit bool) {
	if thickness < minThickness {
		thickness = minThickness
	}
	if p.Length <= 0 || p.Height <= 0 {
		return 0, false
	}

	// Express the ray in the wall's unit-cube frame.
	s, c := gomath.Sincos(float64(math.Radians(p.Yaw)))
	along := math.Vec3{X: float32(c), Z: float32(s)}
	across := math.Vec3{X: -float32(s), Z: float32(c)}
	up := math.Vec3{Y: 1}

	rel := r.Origin.Sub(p.Center)
	origin := [3]float32{rel.Dot(along) / p.Length, rel.Dot(up) / p.Height, rel.Dot(across) / thickness}
	dir := [3]float32{
		r.Direction.Dot(along) / p.Length,
		r.Direction.Dot(up) / p.Height,
		r.Direction.Dot(across) / thickness,
	}

	return slab(origin, dir)
}

// slab intersects a ray with the unit cube centred on the origin.
func slab(origin, dir [3]float32) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < -0.5 || origin[axis] > 0.5 {
				return 0, false
			}
			continue
		}
		t1 := (-0.5 - origin[axis]) / dir[axis]
		t2 := (0.5 - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// PickWall returns the nearest wall hit within maxDistance.
// A maxDistance of zero means unlimited.
func PickWall(r Ray, prims []world.WallPrimitive, thickness, maxDistance float32) (Hit, bool) {
	best := Hit{Index: -1}
	for i, p := range prims {
		t, ok := r.IntersectWall(p, thickness)
		if !ok || (maxDistance > 0 && t > maxDistance) {
			continue
		}
		if best.Index < 0 || t < best.Distance {
			best = Hit{Index: i, Distance: t}
		}
	}
	if best.Index < 0 {
		return Hit{Index: -1}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}

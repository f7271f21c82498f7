package world

import (
	"context"
	"fmt"
	stdmath "math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/sectorview/pkg/formats"
	"github.com/Faultbox/sectorview/pkg/math"
)

// WallPrimitive is a renderable box derived from one solid wall.
type WallPrimitive struct {
	SectorID int
	WallID   int
	Center   math.Vec3
	Height   float32
	Length   float32
	Yaw      float32 // Degrees about +Y, in [-90, 90]
	Texture  string
}

// Transform returns the model matrix mapping a unit cube centred on the
// origin onto the wall box. thickness is the box depth.
func (p WallPrimitive) Transform(thickness float32) math.Mat4 {
	return math.Model(p.Center, -math.Radians(p.Yaw), math.Vec3{X: p.Length, Y: p.Height, Z: thickness})
}

// wallYaw returns the wall direction angle in degrees.
// Vertical walls (dx == 0) face +90 when running toward +Z and -90 otherwise.
func wallYaw(d math.Vec2) float32 {
	if d.X == 0 {
		if d.Y > 0 {
			return 90
		}
		return -90
	}
	return math.Degrees(float32(stdmath.Atan(float64(d.Y) / float64(d.X))))
}

// NewWallPrimitive builds the primitive for wall w of sector s.
func NewWallPrimitive(s formats.Sector, w formats.Wall) WallPrimitive {
	d := w.Delta()
	mid := w.Start.Midpoint(w.End)
	return WallPrimitive{
		SectorID: s.ID,
		WallID:   w.ID,
		Center:   mid.Lift((s.FloorHeight + s.CeilingHeight) / 2),
		Height:   s.Height(),
		Length:   d.Length(),
		Yaw:      wallYaw(d),
		Texture:  w.Texture,
	}
}

// sectorPrimitives builds the primitives for the solid walls of sector i.
func sectorPrimitives(m *formats.Map, i int) ([]WallPrimitive, error) {
	start, end, err := m.WallRange(i)
	if err != nil {
		return nil, err
	}

	s := m.Sectors[i]
	var prims []WallPrimitive
	for j := start; j < end; j++ {
		w := m.Walls[j]
		if w.IsPortal() {
			continue
		}
		if w.IsDegenerate() {
			return nil, &formats.WallError{
				SectorID:  s.ID,
				WallIndex: j,
				WallID:    w.ID,
				Err:       formats.ErrDegenerateWall,
			}
		}
		prims = append(prims, NewWallPrimitive(s, w))
	}
	return prims, nil
}

// GenerateWalls converts every solid wall of m into a WallPrimitive.
// Output is in sector order, then wall order within each sector.
// Any bad sector fails the whole call; the lowest-index failure is returned.
func GenerateWalls(m *formats.Map) ([]WallPrimitive, error) {
	return GenerateWallsContext(context.Background(), m)
}

// GenerateWallsContext is GenerateWalls with cancellation.
// Sectors are processed concurrently, each into its own slot.
func GenerateWallsContext(ctx context.Context, m *formats.Map) ([]WallPrimitive, error) {
	slots := make([][]WallPrimitive, len(m.Sectors))
	errs := make([]error, len(m.Sectors))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range m.Sectors {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Errors are kept per slot so the reported one does not depend on scheduling.
			slots[i], errs[i] = sectorPrimitives(m, i)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating walls: %w", err)
	}

	total := 0
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("generating walls: %w", err)
		}
		total += len(slots[i])
	}

	prims := make([]WallPrimitive, 0, total)
	for _, s := range slots {
		prims = append(prims, s...)
	}
	return prims, nil
}

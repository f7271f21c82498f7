package formats

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/sectorview/pkg/math"
)

// Wall is a directed line segment bounding a sector.
// Start and End are map-space points (Vec2.Y is the map Z axis).
type Wall struct {
	ID       int // Diagnostic only, not an index
	Start    math.Vec2
	End      math.Vec2
	PortalID int    // Negative = solid, otherwise the neighbouring sector
	Texture  string // Optional texture reference
}

// IsPortal returns true if the wall connects to another sector.
func (w Wall) IsPortal() bool {
	return w.PortalID >= 0
}

// IsDegenerate returns true if the wall has zero length.
func (w Wall) IsDegenerate() bool {
	return w.Start == w.End
}

// Delta returns End - Start.
func (w Wall) Delta() math.Vec2 {
	return w.End.Sub(w.Start)
}

// Sector is a region with constant floor and ceiling height.
// Its walls are Map.Walls[FirstWall : FirstWall+WallCount].
type Sector struct {
	ID                int
	FirstWall         int
	WallCount         int
	FloorHeight       float32
	CeilingHeight     float32
	RotatingWallID    int     // Reserved by the format
	RotatingWallAngle float32 // Reserved by the format
}

// Height returns the vertical extent of the sector.
func (s Sector) Height() float32 {
	return s.CeilingHeight - s.FloorHeight
}

// Map is a parsed level: a flat wall list that sectors index into.
type Map struct {
	Name    string
	Sectors []Sector
	Walls   []Wall

	// DroppedRecords lists lines that appeared before any section marker.
	DroppedRecords []int
}

// RangeError reports a sector whose wall range falls outside Map.Walls.
type RangeError struct {
	SectorIndex int
	SectorID    int
	FirstWall   int
	WallCount   int
	Walls       int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("sector %d (index %d): %v: [%d, %d+%d) with %d walls",
		e.SectorID, e.SectorIndex, ErrSectorWallRangeOutOfBounds, e.FirstWall, e.FirstWall, e.WallCount, e.Walls)
}

func (e *RangeError) Unwrap() error {
	return ErrSectorWallRangeOutOfBounds
}

// WallError reports a bad wall inside a sector.
type WallError struct {
	SectorID  int
	WallIndex int
	WallID    int
	Err       error
}

func (e *WallError) Error() string {
	return fmt.Sprintf("sector %d: wall %d (index %d): %v", e.SectorID, e.WallID, e.WallIndex, e.Err)
}

func (e *WallError) Unwrap() error {
	return e.Err
}

// SectorError reports a sector with invalid heights.
type SectorError struct {
	SectorID      int
	FloorHeight   float32
	CeilingHeight float32
	Err           error
}

func (e *SectorError) Error() string {
	return fmt.Sprintf("sector %d: %v: floor %g, ceiling %g", e.SectorID, e.Err, e.FloorHeight, e.CeilingHeight)
}

func (e *SectorError) Unwrap() error {
	return e.Err
}

// WallRange returns the [start, end) index range of sector i's walls.
func (m *Map) WallRange(i int) (start, end int, err error) {
	if i < 0 || i >= len(m.Sectors) {
		return 0, 0, fmt.Errorf("%w: index %d of %d", ErrUnknownSector, i, len(m.Sectors))
	}
	s := m.Sectors[i]
	start = s.FirstWall
	end = s.FirstWall + s.WallCount
	if start < 0 || s.WallCount < 0 || end < start || end > len(m.Walls) {
		return 0, 0, &RangeError{
			SectorIndex: i,
			SectorID:    s.ID,
			FirstWall:   s.FirstWall,
			WallCount:   s.WallCount,
			Walls:       len(m.Walls),
		}
	}
	return start, end, nil
}

// SectorWalls returns the walls of sector i in map order.
// The result aliases Map.Walls and must not be modified.
func (m *Map) SectorWalls(i int) ([]Wall, error) {
	start, end, err := m.WallRange(i)
	if err != nil {
		return nil, err
	}
	return m.Walls[start:end:end], nil
}

// Validate checks every sector and returns all problems found.
// Returns nil if the map is well-formed.
func (m *Map) Validate() error {
	var errs error
	for i, s := range m.Sectors {
		if s.CeilingHeight < s.FloorHeight {
			errs = multierr.Append(errs, &SectorError{
				SectorID:      s.ID,
				FloorHeight:   s.FloorHeight,
				CeilingHeight: s.CeilingHeight,
				Err:           ErrInvalidSectorHeights,
			})
		}

		start, end, err := m.WallRange(i)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for j := start; j < end; j++ {
			if w := m.Walls[j]; w.IsDegenerate() {
				errs = multierr.Append(errs, &WallError{
					SectorID:  s.ID,
					WallIndex: j,
					WallID:    w.ID,
					Err:       ErrDegenerateWall,
				})
			}
		}
	}
	return errs
}

// CountWalls returns the number of solid and portal walls.
func (m *Map) CountWalls() (solid, portal int) {
	for _, w := range m.Walls {
		if w.IsPortal() {
			portal++
		} else {
			solid++
		}
	}
	return solid, portal
}

// Bounds returns the XZ bounding box of all wall endpoints.
// ok is false for a map without walls.
func (m *Map) Bounds() (min, max math.Vec2, ok bool) {
	if len(m.Walls) == 0 {
		return math.Vec2{}, math.Vec2{}, false
	}

	min = m.Walls[0].Start
	max = min
	for _, w := range m.Walls {
		for _, p := range [2]math.Vec2{w.Start, w.End} {
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max, true
}

// HeightRange returns the lowest floor and highest ceiling over all sectors.
func (m *Map) HeightRange() (floor, ceiling float32) {
	if len(m.Sectors) == 0 {
		return 0, 0
	}

	floor = m.Sectors[0].FloorHeight
	ceiling = m.Sectors[0].CeilingHeight
	for _, s := range m.Sectors {
		if s.FloorHeight < floor {
			floor = s.FloorHeight
		}
		if s.CeilingHeight > ceiling {
			ceiling = s.CeilingHeight
		}
	}
	return floor, ceiling
}

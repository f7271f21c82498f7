package world

import (
	"github.com/Faultbox/sectorview/pkg/formats"
	"github.com/Faultbox/sectorview/pkg/math"
)

// side returns the winding sign of p against the directed wall a->b.
// Points inside a correctly wound sector give side <= 0 for every wall.
func side(a, b, p math.Vec2) float32 {
	return -((p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X))
}

// Contains reports whether p lies inside the convex sector bounded by walls.
// Walls must share one winding; points on an edge count as inside.
// A sector with no walls contains every point.
func Contains(walls []formats.Wall, p math.Vec2) bool {
	for _, w := range walls {
		if side(w.Start, w.End, p) > 0 {
			return false
		}
	}
	return true
}

// SectorAt returns the index of the first sector containing p.
// Sectors with invalid wall ranges are skipped.
func (m *Map) SectorAt(p math.Vec2) (int, bool) {
	for i := range m.Sectors {
		walls, err := m.SectorWalls(i)
		if err != nil || len(walls) == 0 {
			continue
		}
		if Contains(walls, p) {
			return i, true
		}
	}
	return -1, false
}

// FloorAt returns the floor height of the sector containing p.
func (m *Map) FloorAt(p math.Vec2) (float32, bool) {
	i, ok := m.SectorAt(p)
	if !ok {
		return 0, false
	}
	return m.Sectors[i].FloorHeight, true
}

// Tracker follows which sector a moving point is in.
type Tracker struct {
	m       *Map
	current int
}

// NewTracker starts tracking on m with no current sector.
func NewTracker(m *Map) *Tracker {
	return &Tracker{m: m, current: -1}
}

// Current returns the last sector index seen, or -1.
func (t *Tracker) Current() int {
	return t.current
}

// Update locates p and reports whether the sector changed since the last call.
// Leaving every sector changes the current sector to -1.
func (t *Tracker) Update(p math.Vec2) (sector int, changed bool) {
	sector, _ = t.m.SectorAt(p)
	changed = sector != t.current
	t.current = sector
	return sector, changed
}

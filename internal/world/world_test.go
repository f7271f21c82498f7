package world

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/sectorview/pkg/formats"
	"github.com/Faultbox/sectorview/pkg/math"
)

const twoRoomsText = `// two rooms joined by a portal
[SECTORS]
0 0 4 0 3 -1 0
1 4 4 0.5 2.5 -1 0
[WALLS]
0 0 0 0 4 -1 brick
1 0 4 4 4 -1 brick
2 4 4 4 0 1
3 4 0 0 0 -1 brick
4 4 0 4 4 0
5 4 4 8 4 -1 stone
6 8 4 8 0 -1 stone
7 8 0 4 0 -1 stone
`

func writeMap(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.map")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}
	return path
}

func TestContains(t *testing.T) {
	square := twoRooms().Walls[:4]

	tests := []struct {
		name string
		p    math.Vec2
		want bool
	}{
		{"centroid", math.Vec2{X: 2, Y: 2}, true},
		{"near corner", math.Vec2{X: 0.1, Y: 3.9}, true},
		{"on edge", math.Vec2{X: 0, Y: 2}, true},
		{"on corner", math.Vec2{X: 4, Y: 4}, true},
		{"right", math.Vec2{X: 5, Y: 2}, false},
		{"left", math.Vec2{X: -1, Y: 2}, false},
		{"above", math.Vec2{X: 2, Y: 5}, false},
		{"below", math.Vec2{X: 2, Y: -0.01}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(square, tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContains_NoWalls(t *testing.T) {
	if !Contains(nil, math.Vec2{X: 100, Y: -100}) {
		t.Error("a sector without walls should contain every point")
	}
}

func TestMap_SectorAt(t *testing.T) {
	m, err := NewMap(twoRooms())
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}

	tests := []struct {
		p    math.Vec2
		want int
		ok   bool
	}{
		{math.Vec2{X: 2, Y: 2}, 0, true},
		{math.Vec2{X: 6, Y: 1}, 1, true},
		{math.Vec2{X: 4, Y: 2}, 0, true}, // shared edge: first sector wins
		{math.Vec2{X: 10, Y: 2}, -1, false},
	}

	for _, tt := range tests {
		got, ok := m.SectorAt(tt.p)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SectorAt(%v) = %d, %v; want %d, %v", tt.p, got, ok, tt.want, tt.ok)
		}
	}

	if floor, ok := m.FloorAt(math.Vec2{X: 6, Y: 1}); !ok || floor != 0.5 {
		t.Errorf("FloorAt = %v, %v; want 0.5, true", floor, ok)
	}
	if _, ok := m.FloorAt(math.Vec2{X: -5, Y: 0}); ok {
		t.Error("expected no floor outside the map")
	}
}

func TestMap_SectorAt_SkipsBadSectors(t *testing.T) {
	fm := twoRooms()
	fm.Sectors = append([]formats.Sector{{ID: 9, FirstWall: 50, WallCount: 2}}, fm.Sectors...)
	m := &Map{Map: fm}

	if i, ok := m.SectorAt(math.Vec2{X: 2, Y: 2}); !ok || i != 1 {
		t.Errorf("SectorAt = %d, %v; want 1, true", i, ok)
	}
}

func TestMap_Regenerate(t *testing.T) {
	m, err := NewMap(twoRooms())
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}
	before := len(m.Primitives)

	m.Walls[2].PortalID = -1
	if err := m.Regenerate(); err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if len(m.Primitives) != before+1 {
		t.Errorf("expected %d primitives after closing the portal, got %d", before+1, len(m.Primitives))
	}

	m.Sectors[0].WallCount = 100
	if err := m.Regenerate(); !errors.Is(err, formats.ErrSectorWallRangeOutOfBounds) {
		t.Fatalf("expected ErrSectorWallRangeOutOfBounds, got %v", err)
	}
	if len(m.Primitives) != before+1 {
		t.Error("failed Regenerate should keep the previous primitives")
	}
}

func TestLoad(t *testing.T) {
	path := writeMap(t, twoRoomsText)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != path {
		t.Errorf("expected name %s, got %s", path, m.Name)
	}
	if len(m.Sectors) != 2 || len(m.Walls) != 8 {
		t.Errorf("unexpected counts: %d sectors %d walls", len(m.Sectors), len(m.Walls))
	}
	if len(m.Primitives) != 6 {
		t.Errorf("expected 6 primitives, got %d", len(m.Primitives))
	}
	if m.Primitives[0].Texture != "brick" || m.Primitives[5].Texture != "stone" {
		t.Errorf("textures not carried: %q, %q", m.Primitives[0].Texture, m.Primitives[5].Texture)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"short sector", "[SECTORS]\n0 0 4 0 3\n", formats.ErrMalformedRecord},
		{"bad number", "[WALLS]\n0 0 0 x 4 -1\n", formats.ErrInvalidFieldValue},
		{"range", "[SECTORS]\n0 0 4 0 3 -1 0\n[WALLS]\n0 0 0 0 4 -1\n", formats.ErrSectorWallRangeOutOfBounds},
		{"heights", "[SECTORS]\n0 0 1 3 0 -1 0\n[WALLS]\n0 0 0 0 4 -1\n", formats.ErrInvalidSectorHeights},
		{"degenerate", "[SECTORS]\n0 0 1 0 3 -1 0\n[WALLS]\n0 1 1 1 1 -1\n", formats.ErrDegenerateWall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(writeMap(t, tt.text))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if m != nil {
				t.Error("expected no map on error")
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.map"))
	if !errors.Is(err, formats.ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrIO wrapping fs.ErrNotExist, got %v", err)
	}
}

func TestManager(t *testing.T) {
	mgr := NewManager()
	if mgr.Current() != nil {
		t.Fatal("expected no current map")
	}
	if _, err := mgr.Reload(); err == nil {
		t.Error("expected Reload to fail without a map")
	}

	path := writeMap(t, twoRoomsText)
	loaded, err := mgr.LoadMap(path)
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if mgr.Current() != loaded {
		t.Error("loaded map should become current")
	}

	if _, err := mgr.LoadMap(writeMap(t, "[SECTORS]\n1 2\n")); err == nil {
		t.Fatal("expected LoadMap to fail")
	}
	if mgr.Current() != loaded {
		t.Error("failed load should keep the current map")
	}

	reloaded, err := mgr.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded == loaded || len(reloaded.Primitives) != len(loaded.Primitives) {
		t.Error("Reload should produce a fresh, equivalent map")
	}
}

func TestTracker(t *testing.T) {
	m, err := NewMap(twoRooms())
	if err != nil {
		t.Fatalf("NewMap failed: %v", err)
	}
	tr := NewTracker(m)
	if tr.Current() != -1 {
		t.Fatalf("expected no sector before the first update, got %d", tr.Current())
	}

	steps := []struct {
		p       math.Vec2
		sector  int
		changed bool
	}{
		{math.Vec2{X: 1, Y: 1}, 0, true},
		{math.Vec2{X: 3, Y: 1}, 0, false},
		{math.Vec2{X: 5, Y: 1}, 1, true},
		{math.Vec2{X: 9, Y: 1}, -1, true},
		{math.Vec2{X: 9, Y: 2}, -1, false},
	}
	for i, s := range steps {
		sector, changed := tr.Update(s.p)
		if sector != s.sector || changed != s.changed {
			t.Errorf("step %d: Update(%v) = %d, %v; want %d, %v", i, s.p, sector, changed, s.sector, s.changed)
		}
	}
}

func TestLoad_DemoMap(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "maps", "demo.map"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Sectors) != 3 || len(m.Walls) != 12 {
		t.Fatalf("unexpected counts: %d sectors %d walls", len(m.Sectors), len(m.Walls))
	}
	if len(m.Primitives) != 8 {
		t.Errorf("expected 8 solid walls, got %d", len(m.Primitives))
	}

	// Default camera start lands in the hall.
	tests := []struct {
		p     math.Vec2
		want  int
		floor float32
	}{
		{math.Vec2{X: 2, Y: 2}, 0, 0},
		{math.Vec2{X: 9, Y: 3}, 1, 0.5},
		{math.Vec2{X: 9, Y: 8}, 2, 1},
	}
	for _, tt := range tests {
		i, ok := m.SectorAt(tt.p)
		if !ok || i != tt.want {
			t.Errorf("SectorAt(%v) = %d, %v; want %d", tt.p, i, ok, tt.want)
			continue
		}
		if f, _ := m.FloorAt(tt.p); f != tt.floor {
			t.Errorf("FloorAt(%v) = %v, want %v", tt.p, f, tt.floor)
		}
	}
}

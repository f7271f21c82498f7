// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/sectorview/pkg/formats"
)

// LineVertex represents a vertex for line rendering.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// Outline colours.
var (
	SolidColor   = [3]float32{0.55, 0.55, 0.55}
	PortalColor  = [3]float32{0.2, 0.8, 0.9}
	CurrentColor = [3]float32{1.0, 0.85, 0.2}
	SelectColor  = [3]float32{1.0, 0.3, 0.3}
)

func line(a, b [3]float32, c [3]float32) [2]LineVertex {
	return [2]LineVertex{
		{a[0], a[1], a[2], c[0], c[1], c[2]},
		{b[0], b[1], b[2], c[0], c[1], c[2]},
	}
}

// SectorOutlines generates line pairs tracing every sector's walls at its
// floor and ceiling height. Portal edges use PortalColor, and the sector at
// index current is drawn in CurrentColor. Sectors with bad wall ranges are skipped.
func SectorOutlines(m *formats.Map, current int) []LineVertex {
	var vertices []LineVertex

	for i, s := range m.Sectors {
		walls, err := m.SectorWalls(i)
		if err != nil {
			continue
		}

		for _, w := range walls {
			color := SolidColor
			if w.IsPortal() {
				color = PortalColor
			}
			if i == current {
				color = CurrentColor
			}

			for _, y := range [2]float32{s.FloorHeight, s.CeilingHeight} {
				seg := line(
					[3]float32{w.Start.X, y, w.Start.Y},
					[3]float32{w.End.X, y, w.End.Y},
					color,
				)
				vertices = append(vertices, seg[:]...)
			}
		}
	}

	return vertices
}

// Package world turns parsed maps into renderable wall geometry.
package world

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/sectorview/internal/logger"
	"github.com/Faultbox/sectorview/pkg/formats"
)

// Map is a loaded level together with its generated wall primitives.
type Map struct {
	*formats.Map

	Primitives []WallPrimitive
}

// NewMap wraps a parsed map and generates its primitives.
func NewMap(m *formats.Map) (*Map, error) {
	w := &Map{Map: m}
	if err := w.Regenerate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Regenerate rebuilds Primitives from the current sectors and walls.
// On error the previous primitives are kept.
func (m *Map) Regenerate() error {
	prims, err := GenerateWalls(m.Map)
	if err != nil {
		return fmt.Errorf("map %s: %w", m.Name, err)
	}
	m.Primitives = prims
	return nil
}

// Load parses, validates and generates the map at path.
// Loading is all-or-nothing: any problem returns an error and no map.
func Load(path string) (*Map, error) {
	log := logger.Named("world")

	parsed, err := formats.ParseMapFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", path, err)
	}

	if len(parsed.DroppedRecords) > 0 {
		log.Warn("records before first section ignored",
			zap.String("map", path),
			zap.Ints("lines", parsed.DroppedRecords))
	}

	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("loading map %s: %w", path, err)
	}

	m, err := NewMap(parsed)
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", path, err)
	}

	for _, s := range parsed.Sectors {
		log.Debug("sector",
			zap.Int("id", s.ID),
			zap.Int("first_wall", s.FirstWall),
			zap.Int("wall_count", s.WallCount),
			zap.Float32("floor", s.FloorHeight),
			zap.Float32("ceiling", s.CeilingHeight))
	}

	solid, portal := parsed.CountWalls()
	log.Info("map loaded",
		zap.String("map", path),
		zap.Int("sectors", len(parsed.Sectors)),
		zap.Int("walls", len(parsed.Walls)),
		zap.Int("solid", solid),
		zap.Int("portals", portal),
		zap.Int("primitives", len(m.Primitives)))
	return m, nil
}

// Manager manages the current map and map transitions.
type Manager struct {
	current *Map
	mu      sync.RWMutex
}

// NewManager creates a new world manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current map, or nil before the first load.
func (m *Manager) Current() *Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// LoadMap loads the map at path and makes it current.
// The current map is unchanged when loading fails.
func (m *Manager) LoadMap(path string) (*Map, error) {
	loaded, err := Load(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = loaded
	m.mu.Unlock()
	return loaded, nil
}

// Reload loads the current map's file again.
func (m *Manager) Reload() (*Map, error) {
	cur := m.Current()
	if cur == nil {
		return nil, fmt.Errorf("reload: no map loaded")
	}
	return m.LoadMap(cur.Name)
}

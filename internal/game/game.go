// Package game implements the viewer's main loop.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sectorview/internal/assets"
	"github.com/Faultbox/sectorview/internal/config"
	"github.com/Faultbox/sectorview/internal/engine/camera"
	"github.com/Faultbox/sectorview/internal/engine/debug"
	"github.com/Faultbox/sectorview/internal/engine/input"
	"github.com/Faultbox/sectorview/internal/engine/model"
	"github.com/Faultbox/sectorview/internal/engine/picking"
	"github.com/Faultbox/sectorview/internal/engine/renderer"
	"github.com/Faultbox/sectorview/internal/engine/window"
	"github.com/Faultbox/sectorview/internal/logger"
	"github.com/Faultbox/sectorview/internal/world"
	"github.com/Faultbox/sectorview/pkg/math"
)

// Game is the main viewer instance.
type Game struct {
	config   *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	textures *assets.TextureLibrary
	maps     *world.Manager
	tracker  *world.Tracker

	player   *camera.FirstPersonCamera
	overview *camera.OrbitCamera
	orbiting bool
	dragging bool
	outlines bool

	screenshots *debug.ScreenshotCapture
}

// New creates the window and renderer and loads the configured map.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("map", cfg.Map.Path),
	)

	g := &Game{
		config:   cfg,
		log:      log,
		textures: assets.NewTextureLibrary(cfg.Textures.Dirs, cfg.Textures.Extensions),
		maps:     world.NewManager(),
		overview: camera.NewOrbitCamera(),

		screenshots: debug.NewScreenshotCapture("screenshots", "sectorview"),
	}

	// Load the map before opening a window so bad input fails fast.
	if _, err := g.maps.LoadMap(cfg.Map.Path); err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		FOV:    cfg.Camera.FOV,
		Near:   cfg.Camera.Near,
		Far:    cfg.Camera.Far,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()
	g.input.SetRelativeMouse(true)

	g.player = camera.NewFirstPersonCamera(cfg.Camera.StartX, cfg.Camera.StartZ, cfg.Camera.StartYaw)
	g.player.EyeHeight = cfg.Camera.EyeHeight
	g.player.MoveSpeed = cfg.Camera.MoveSpeed
	g.player.MouseSensitivity = cfg.Camera.MouseSensitivity

	if err := g.upload(g.maps.Current()); err != nil {
		g.Close()
		return nil, err
	}

	log.Info("viewer initialized")
	return g, nil
}

// upload sends m's walls to the renderer and resets per-map state.
func (g *Game) upload(m *world.Map) error {
	err := g.renderer.Upload(m.Primitives, g.textures, model.BuildOptions{
		Thickness:    g.config.Map.WallThickness,
		TextureScale: g.config.Map.TextureScale,
	})
	if err != nil {
		return fmt.Errorf("uploading map %s: %w", m.Name, err)
	}

	g.tracker = world.NewTracker(m)
	g.renderer.Selection.Set(nil)
	if minP, maxP, ok := m.Bounds(); ok {
		floor, ceiling := m.HeightRange()
		g.overview.FitToBounds(minP, maxP, floor, ceiling)
	}
	g.locate()
	g.renderer.Outlines.Set(debug.SectorOutlines(m.Map, g.tracker.Current()))
	return nil
}

// Run starts the main loop and returns when the window is closed.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget uint32
	if g.config.Window.FPSLimit > 0 {
		frameBudget = uint32(1000 / g.config.Window.FPSLimit)
	}

	g.log.Info("starting main loop")

	for g.running {
		frameStart := window.Ticks()

		// Calculate delta time
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Update camera and sector
		g.update(dt)

		// 3. Render
		g.render()

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if elapsed := window.Ticks() - frameStart; frameBudget > 0 && elapsed < frameBudget {
			window.Delay(frameBudget - elapsed)
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
		case input.EventMouseDown:
			g.dragging = event.Button == sdl.BUTTON_LEFT
			if g.dragging && !g.orbiting {
				g.inspect()
			}
		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				g.dragging = false
			}
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_TAB:
				g.orbiting = !g.orbiting
				g.input.SetRelativeMouse(!g.orbiting)
				g.log.Debug("camera mode changed", zap.Bool("overview", g.orbiting))
			case sdl.SCANCODE_O:
				g.outlines = !g.outlines
			case sdl.SCANCODE_F5:
				g.reload()
			case sdl.SCANCODE_F12:
				g.screenshot()
			}
		}
	}
}

// inspect logs the wall under the crosshair.
func (g *Game) inspect() {
	m := g.maps.Current()
	ray := picking.NewRay(g.player.Position, g.player.Front())
	hit, ok := picking.PickWall(ray, m.Primitives, g.config.Map.WallThickness, g.config.Camera.Far)
	if !ok {
		g.log.Info("no wall in view")
		g.renderer.Selection.Set(nil)
		return
	}

	p := m.Primitives[hit.Index]
	g.renderer.Selection.Set(debug.WallWireframe(p, g.config.Map.WallThickness, debug.DefaultBBoxPadding))
	g.log.Info("looking at wall",
		zap.Int("sector", p.SectorID),
		zap.Int("wall", p.WallID),
		zap.String("texture", p.Texture),
		zap.Float32("distance", hit.Distance),
		zap.Float32("length", p.Length),
		zap.Float32("yaw", p.Yaw))
}

func (g *Game) screenshot() {
	pixels, width, height := g.renderer.ReadPixels()
	path, err := g.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// reload re-reads the map from disk, keeping the current one on failure.
func (g *Game) reload() {
	m, err := g.maps.Reload()
	if err != nil {
		g.log.Error("map reload failed", zap.Error(err))
		return
	}
	if err := g.upload(m); err != nil {
		g.log.Error("map upload failed", zap.Error(err))
	}
}

func (g *Game) update(dt float32) {
	dx, dy := g.input.MouseDelta()

	if g.orbiting {
		if g.dragging {
			g.overview.HandleDrag(float32(dx), float32(dy))
		}
		if wheel := g.input.Wheel(); wheel != 0 {
			g.overview.HandleZoom(float32(wheel))
		}
		return
	}

	g.player.Look(float32(dx), float32(dy))

	forward := g.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	right := g.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	if forward == 0 && right == 0 {
		return
	}

	prev := g.player.Position
	g.player.Move(forward, right, dt)

	// Stay inside the map once inside it.
	if _, ok := g.maps.Current().SectorAt(g.player.Feet()); !ok && g.tracker.Current() >= 0 {
		g.player.Position = prev
		return
	}
	g.locate()
}

// locate updates the current sector from the player's feet.
func (g *Game) locate() {
	m := g.maps.Current()
	sector, changed := g.tracker.Update(g.player.Feet())
	if sector < 0 {
		if changed {
			g.renderer.Outlines.Set(debug.SectorOutlines(m.Map, -1))
			g.log.Info("left all sectors")
		}
		return
	}

	s := m.Sectors[sector]
	g.player.SetFloor(s.FloorHeight)
	if changed {
		g.renderer.Outlines.Set(debug.SectorOutlines(m.Map, sector))
		g.log.Info("entered sector",
			zap.Int("index", sector),
			zap.Int("id", s.ID),
			zap.Float32("floor", s.FloorHeight),
			zap.Float32("ceiling", s.CeilingHeight))
	}
}

func (g *Game) render() {
	g.renderer.Begin()

	var view math.Mat4
	var eye math.Vec3
	if g.orbiting {
		view, eye = g.overview.ViewMatrix(), g.overview.Position()
	} else {
		view, eye = g.player.ViewMatrix(), g.player.Position
	}
	g.renderer.Draw(view, eye, g.outlines || g.orbiting)

	g.renderer.End()
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.renderer != nil {
		g.renderer.Close()
		g.renderer = nil
	}
	if g.window != nil {
		g.window.Close()
		g.window = nil
	}
}

// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/sectorview/pkg/math"
)

// MaxPitch is the look up/down limit in degrees.
const MaxPitch = 89

var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// FirstPersonCamera is a free-look camera that walks on the XZ plane.
// Yaw 0 looks along +X, yaw 90 along +Z.
type FirstPersonCamera struct {
	Position math.Vec3
	Yaw      float32 // Degrees
	Pitch    float32 // Degrees, within [-MaxPitch, MaxPitch]

	EyeHeight        float32 // Above the floor
	MoveSpeed        float32 // Units per second
	MouseSensitivity float32 // Degrees per pixel
}

// NewFirstPersonCamera creates a camera standing at (x, z) on a floor at height 0.
func NewFirstPersonCamera(x, z, yaw float32) *FirstPersonCamera {
	c := &FirstPersonCamera{
		Yaw:              yaw,
		EyeHeight:        1.6,
		MoveSpeed:        4,
		MouseSensitivity: 0.15,
	}
	c.Position = math.Vec3{X: x, Z: z}
	c.SetFloor(0)
	return c
}

func sincos(deg float32) (sin, cos float32) {
	s, c := gomath.Sincos(float64(math.Radians(deg)))
	return float32(s), float32(c)
}

// Front returns the unit view direction.
func (c *FirstPersonCamera) Front() math.Vec3 {
	sy, cy := sincos(c.Yaw)
	sp, cp := sincos(c.Pitch)
	return math.Vec3{X: cy * cp, Y: sp, Z: sy * cp}
}

// Forward returns the unit walking direction on the XZ plane.
func (c *FirstPersonCamera) Forward() math.Vec3 {
	sy, cy := sincos(c.Yaw)
	return math.Vec3{X: cy, Z: sy}
}

// Right returns the unit strafe direction on the XZ plane.
func (c *FirstPersonCamera) Right() math.Vec3 {
	sy, cy := sincos(c.Yaw)
	return math.Vec3{X: -sy, Z: cy}
}

// Look turns the camera by a mouse delta in pixels. Pitch is clamped.
func (c *FirstPersonCamera) Look(dx, dy float32) {
	c.Yaw = float32(gomath.Mod(float64(c.Yaw+dx*c.MouseSensitivity), 360))
	c.Pitch = math.Clamp(c.Pitch-dy*c.MouseSensitivity, -MaxPitch, MaxPitch)
}

// Move walks the camera. forward and right are in [-1, 1]; dt is in seconds.
// Vertical position is left to SetFloor.
func (c *FirstPersonCamera) Move(forward, right, dt float32) {
	dir := c.Forward().Scale(forward).Add(c.Right().Scale(right))
	if l := dir.Length(); l > 1 {
		dir = dir.Scale(1 / l)
	}
	c.Position = c.Position.Add(dir.Scale(c.MoveSpeed * dt))
}

// SetFloor places the eye EyeHeight above floor.
func (c *FirstPersonCamera) SetFloor(floor float32) {
	c.Position.Y = floor + c.EyeHeight
}

// Feet returns the camera position in map space.
func (c *FirstPersonCamera) Feet() math.Vec2 {
	return c.Position.XZ()
}

// ViewMatrix returns the view matrix for this camera.
func (c *FirstPersonCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.Front()), worldUp)
}

// OrbitCamera orbits around a center point. Used for the map overview.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.8,
		RotationY:       0.0,
		MinDistance:     2.0,
		MaxDistance:     500.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sx, cx := gomath.Sincos(float64(c.RotationX))
	sy, cy := gomath.Sincos(float64(c.RotationY))

	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cx*sy),
		Y: c.Distance * float32(sx),
		Z: c.Distance * float32(cx*cy),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, worldUp)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centres the camera on a map's XZ bounds and height range.
func (c *OrbitCamera) FitToBounds(minP, maxP math.Vec2, floor, ceiling float32) {
	mid := minP.Midpoint(maxP)
	c.Center = mid.Lift((floor + ceiling) / 2)

	size := max(maxP.X-minP.X, maxP.Y-minP.Y)
	c.Distance = math.Clamp(size*1.2, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.8
	c.RotationY = 0.0
}

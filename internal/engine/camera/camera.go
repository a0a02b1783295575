// Package camera provides the orbit camera used to aim the brush.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// OrbitCamera orbits around a center point on the terrain.
type OrbitCamera struct {
	Center math.Vec3

	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	FovY      float32
	NearPlane float32
	FarPlane  float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with editor defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		MinDistance:     10.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		FovY:            0.785398, // 45 degrees
		NearPlane:       1.0,
		FarPlane:        10000.0,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	pitch, yaw := float64(c.RotationX), float64(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(gomath.Cos(pitch)*gomath.Sin(yaw)),
		Y: c.Distance * float32(gomath.Sin(pitch)),
		Z: c.Distance * float32(gomath.Cos(pitch)*gomath.Cos(yaw)),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view for a viewport aspect ratio.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	proj := math.Perspective(c.FovY, aspect, c.NearPlane, c.FarPlane)
	return proj.Mul(c.ViewMatrix())
}

// HandleDrag orbits by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves toward the center for positive wheel deltas.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center relative to the current yaw. Speed scales
// with distance.
func (c *OrbitCamera) HandleMovement(forward, right float32) {
	speed := c.Distance * 0.01
	sin := float32(gomath.Sin(float64(c.RotationY)))
	cos := float32(gomath.Cos(float64(c.RotationY)))

	// Forward moves away from the camera.
	c.Center.X += (-sin*forward + cos*right) * speed
	c.Center.Z += (-cos*forward - sin*right) * speed
}

// FitToBounds centers the camera over a bounding box and backs off far
// enough to see it.
func (c *OrbitCamera) FitToBounds(lo, hi [3]float32) {
	c.Center = math.Vec3{
		X: (lo[0] + hi[0]) / 2,
		Y: (lo[1] + hi[1]) / 2,
		Z: (lo[2] + hi[2]) / 2,
	}
	size := max(hi[0]-lo[0], hi[2]-lo[2])
	c.Distance = math.Clamp(size*0.75, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0
}

package picking

import (
	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// Camera supplies the matrix that rays are cast through.
type Camera interface {
	ViewProjection(aspect float32) math.Mat4
}

// ScreenPicker resolves viewport pixels to terrain contact points.
type ScreenPicker struct {
	Camera Camera
	Width  int
	Height int
	Tiles  []*terrain.Heightmap
}

// Ray returns the world ray under pixel (x, y).
func (p *ScreenPicker) Ray(x, y int) Ray {
	w, h := float32(p.Width), float32(p.Height)
	inv := p.Camera.ViewProjection(w / h).Inverse()
	return ScreenToRay(float32(x), float32(y), w, h, inv)
}

// Pick returns the terrain point under pixel (x, y).
func (p *ScreenPicker) Pick(x, y int) (math.Vec3, bool) {
	if p.Width <= 0 || p.Height <= 0 {
		return math.Vec3{}, false
	}
	point, _, ok := PickTiles(p.Ray(x, y), p.Tiles...)
	return point, ok
}

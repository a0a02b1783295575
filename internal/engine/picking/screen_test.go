package picking

import (
	"testing"

	"github.com/Faultbox/midgard-sculpt/internal/engine/camera"
	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

func TestScreenPickerCenterHitsOrbitTarget(t *testing.T) {
	h := terrain.NewHeightmap(41, 41, true)
	h.Fill(3)

	cam := camera.NewOrbitCamera()
	cam.Center = math.Vec3{X: 5, Y: 3, Z: -2}
	cam.Distance = 50
	cam.RotationY = 0.4

	p := &ScreenPicker{Camera: cam, Width: 800, Height: 600, Tiles: []*terrain.Heightmap{h}}
	got, ok := p.Pick(400, 300)
	if !ok {
		t.Fatal("expected hit at viewport center")
	}
	if !near(got, cam.Center, 0.05) {
		t.Errorf("Pick = %v, want %v", got, cam.Center)
	}

	// Lower pixels land closer to the camera.
	low, ok := p.Pick(400, 550)
	if !ok {
		t.Fatal("expected hit below center")
	}
	eye := cam.Position()
	if low.Sub(eye).Length() >= got.Sub(eye).Length() {
		t.Errorf("lower pixel hit %v is not nearer than %v", low, got)
	}
}

func TestScreenPickerEmptyViewport(t *testing.T) {
	p := &ScreenPicker{Camera: camera.NewOrbitCamera(), Tiles: []*terrain.Heightmap{terrain.NewHeightmap(3, 3, true)}}
	if _, ok := p.Pick(0, 0); ok {
		t.Error("zero-size viewport should not pick")
	}
}

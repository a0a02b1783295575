package terrain

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/formats"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

func TestNewHeightmapGridBounds(t *testing.T) {
	tests := []struct {
		name           string
		width, depth   int
		centered       bool
		wantLo, wantHi sculpt.CellKey
	}{
		{"corner", 4, 3, false, sculpt.CellKey{X: 0, Z: 0}, sculpt.CellKey{X: 3, Z: 2}},
		{"centered odd", 5, 5, true, sculpt.CellKey{X: -2, Z: -2}, sculpt.CellKey{X: 2, Z: 2}},
		{"centered even", 4, 6, true, sculpt.CellKey{X: -1, Z: -2}, sculpt.CellKey{X: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeightmap(tt.width, tt.depth, tt.centered)
			lo, hi := h.GridBounds()
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("GridBounds() = %v, %v, want %v, %v", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestHeightAtOutsideIsNaN(t *testing.T) {
	h := NewHeightmap(3, 3, true)
	for _, cell := range []sculpt.CellKey{{X: 2, Z: 0}, {X: 0, Z: -2}, {X: 5, Z: 5}} {
		if v := h.HeightAt(cell); !gomath.IsNaN(float64(v)) {
			t.Errorf("HeightAt(%v) = %v, want NaN", cell, v)
		}
	}
	if v := h.HeightAt(sculpt.CellKey{}); v != 0 {
		t.Errorf("HeightAt(origin) = %v, want 0", v)
	}
}

func TestSetHeightsAndBounds(t *testing.T) {
	h := NewHeightmap(3, 3, true)
	h.Scale = math.Vec3{X: 2, Y: 0.5, Z: 2}
	h.Translation = math.Vec3{X: 10, Y: 1, Z: -4}

	h.SetHeights(
		[]sculpt.CellKey{{X: 0, Z: 0}, {X: 1, Z: -1}, {X: 9, Z: 9}},
		[]float32{4, -2, 100},
	)
	if got := h.HeightAt(sculpt.CellKey{}); got != 4 {
		t.Errorf("center = %v, want 4", got)
	}
	if got := h.HeightAt(sculpt.CellKey{X: 1, Z: -1}); got != -2 {
		t.Errorf("corner = %v, want -2", got)
	}

	rev := h.Revision
	h.UpdateModelBound()
	if h.Revision != rev+1 {
		t.Error("Revision not incremented")
	}
	want := Bounds{Min: [3]float32{8, 0, -6}, Max: [3]float32{12, 3, -2}}
	if h.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", h.Bounds, want)
	}
	if p := h.WorldPosition(sculpt.CellKey{}); p != (math.Vec3{X: 10, Y: 3, Z: -4}) {
		t.Errorf("WorldPosition = %v", p)
	}
}

func TestInterpolatedHeight(t *testing.T) {
	h := NewHeightmap(2, 2, false)
	h.Scale = math.Vec3{X: 10, Y: 1, Z: 10}
	h.Altitudes = []float32{0, 10, 20, 30}

	tests := []struct {
		x, z float32
		want float32
	}{
		{0, 0, 0},
		{10, 0, 10},
		{0, 10, 20},
		{5, 5, 15},
		{10, 10, 30},
	}
	for _, tt := range tests {
		if got := h.InterpolatedHeight(tt.x, tt.z); !approx(got, tt.want) {
			t.Errorf("InterpolatedHeight(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
	if got := h.InterpolatedHeight(-1, 5); !gomath.IsNaN(float64(got)) {
		t.Errorf("outside = %v, want NaN", got)
	}
}

func TestFill(t *testing.T) {
	h := NewHeightmap(4, 4, false)
	h.Fill(7)
	for i, a := range h.Altitudes {
		if a != 7 {
			t.Fatalf("altitude %d = %v", i, a)
		}
	}
	if h.Bounds.Min[1] != 7 || h.Bounds.Max[1] != 7 {
		t.Errorf("Bounds Y = %v..%v", h.Bounds.Min[1], h.Bounds.Max[1])
	}
}

func TestSculptRaiseOnHeightmap(t *testing.T) {
	h := NewHeightmap(21, 21, true)
	var ops []sculpt.Operation
	c := sculpt.NewToolController(sculpt.ConsumerFunc(func(op sculpt.Operation) {
		ops = append(ops, op)
	}))
	c.SetTool(&sculpt.RaiseLower{})
	c.SetBrush(5, 1)
	c.Bind(sculpt.Tile{Terrain: h})

	if err := c.StartPainting(sculpt.InputPrimary, math.QuatIdentity(), math.Vec3{}); err != nil {
		t.Fatal(err)
	}
	if err := c.FinishPainting(math.QuatIdentity(), math.Vec3{}); err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("operations = %d, want 1", len(ops))
	}
	if h.Bounds.Max[1] != 2 {
		t.Errorf("bounds max Y = %v, want 2", h.Bounds.Max[1])
	}
	if err := ops[0].Undo(); err != nil {
		t.Fatal(err)
	}
	for i, a := range h.Altitudes {
		if a != 0 {
			t.Fatalf("altitude %d = %v after undo", i, a)
		}
	}
	if h.Bounds.Max[1] != 0 {
		t.Errorf("bounds max Y after undo = %v, want 0", h.Bounds.Max[1])
	}
}

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

// flatGND returns a w x h GND with every corner at altitude alt.
func flatGND(w, h int, alt float32) *formats.GND {
	g := &formats.GND{
		Version:        formats.GNDVersion{Major: 1, Minor: 7},
		Width:          uint32(w),
		Height:         uint32(h),
		Zoom:           10,
		TextureNameLen: 80,
		LightmapWidth:  8,
		LightmapHeight: 8,
		LightmapCells:  1,
		Tiles:          make([]formats.GNDTile, w*h),
	}
	for i := range g.Tiles {
		g.Tiles[i] = formats.GNDTile{
			Altitude:     [4]float32{alt, alt, alt, alt},
			TopSurface:   -1,
			FrontSurface: -1,
			RightSurface: -1,
		}
	}
	return g
}

func TestImage(t *testing.T) {
	h := NewHeightmap(3, 2, false)
	h.SetHeights(
		[]sculpt.CellKey{{X: 1, Z: 0}, {X: 2, Z: 1}},
		[]float32{-2, 2},
	)
	img, lo, hi := h.Image()
	if lo != -2 || hi != 2 {
		t.Fatalf("range = %v .. %v, want -2 .. 2", lo, hi)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	tests := []struct {
		x, z int
		want uint16
	}{
		{1, 0, 0},
		{2, 1, 65535},
		{0, 0, 32768},
	}
	for _, tt := range tests {
		if got := img.Gray16At(tt.x, tt.z).Y; got != tt.want {
			t.Errorf("pixel (%d,%d) = %d, want %d", tt.x, tt.z, got, tt.want)
		}
	}

	flat, lo, hi := NewHeightmap(2, 2, true).Image()
	if lo != 0 || hi != 0 || flat.Gray16At(1, 1).Y != 0 {
		t.Errorf("flat map = %v .. %v, pixel %d", lo, hi, flat.Gray16At(1, 1).Y)
	}
}

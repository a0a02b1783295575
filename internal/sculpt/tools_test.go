package sculpt

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

func terrainCenter(t *gridTerrain) math.Vec3 {
	return math.Vec3{
		X: float32(t.lo.X+t.hi.X) / 2 * t.scale.X,
		Z: float32(t.lo.Z+t.hi.Z) / 2 * t.scale.Z,
	}.Add(t.trans)
}

// stroke runs a start/finish gesture with tool and returns its operation.
func stroke(t *testing.T, tool Tool, in Input, size, power float32, contact math.Vec3, tiles ...Tile) Operation {
	t.Helper()
	rec := &recorder{}
	c := NewToolController(rec)
	c.SetTool(tool)
	c.SetBrush(size, power)
	c.Bind(tiles...)
	if err := c.StartPainting(in, noRotation, contact); err != nil {
		t.Fatalf("StartPainting: %v", err)
	}
	if err := c.FinishPainting(noRotation, contact); err != nil {
		t.Fatalf("FinishPainting: %v", err)
	}
	if len(rec.ops) != 1 {
		t.Fatalf("pushed %d operations, want 1", len(rec.ops))
	}
	return rec.ops[0]
}

func heightChange(t *testing.T, op Operation) HeightChange {
	t.Helper()
	hop, ok := op.(*HeightOperation)
	if !ok || len(hop.Changes) != 1 {
		t.Fatalf("expected one height change, got %#v", op)
	}
	return hop.Changes[0]
}

func TestRaiseScenario(t *testing.T) {
	terrain := newGridTerrain(CellKey{-10, -10}, CellKey{10, 10}, 0)
	ch := heightChange(t, stroke(t, &RaiseLower{}, InputPrimary, 5, 1, origin, Tile{Terrain: terrain}))

	for z := -10; z <= 10; z++ {
		for x := -10; x <= 10; x++ {
			cell := CellKey{x, z}
			h, present := ch.New[cell]
			inside := x*x+z*z < 25
			if inside != present {
				t.Errorf("cell %v present=%v, inside=%v", cell, present, inside)
				continue
			}
			if present && !(h > 0) {
				t.Errorf("cell %v new height %v, want > 0", cell, h)
			}
			if present && ch.Old[cell] != 0 {
				t.Errorf("cell %v old height %v, want 0", cell, ch.Old[cell])
			}
		}
	}
	// Two passes at the center with full weight.
	if got := ch.New[CellKey{0, 0}]; !approxEqual(got, 2, 1e-6) {
		t.Errorf("center height = %v, want 2", got)
	}
}

func TestLowerWithSecondary(t *testing.T) {
	terrain := newGridTerrain(CellKey{-5, -5}, CellKey{5, 5}, 0)
	ch := heightChange(t, stroke(t, &RaiseLower{}, InputSecondary, 3, 1, origin, Tile{Terrain: terrain}))
	for cell, h := range ch.New {
		if !(h < 0) {
			t.Errorf("cell %v = %v, want < 0", cell, h)
		}
	}
}

func TestRaiseSkipsOffTerrainCells(t *testing.T) {
	terrain := newGridTerrain(CellKey{0, 0}, CellKey{4, 4}, 0)
	ch := heightChange(t, stroke(t, &RaiseLower{}, InputPrimary, 3, 1, origin, Tile{Terrain: terrain}))
	for cell := range ch.New {
		if cell.X < 0 || cell.Z < 0 {
			t.Errorf("off-terrain cell %v tracked", cell)
		}
	}
	if len(ch.New) == 0 {
		t.Error("no in-range cells edited")
	}
}

func TestLevelPrecision(t *testing.T) {
	for _, scaleY := range []float32{1, 2, 0.25} {
		terrain := newGridTerrain(CellKey{-6, -6}, CellKey{6, 6}, 10)
		terrain.scale.Y = scaleY
		tool := &Level{Level: 3, Precision: true}
		ch := heightChange(t, stroke(t, tool, InputPrimary, 4, 1, origin, Tile{Terrain: terrain}))
		if len(ch.New) == 0 {
			t.Fatal("no cells leveled")
		}
		for cell, h := range ch.New {
			if h != 3/scaleY {
				t.Errorf("scale %v: cell %v = %v, want %v", scaleY, cell, h, 3/scaleY)
			}
			if ch.Old[cell] != 10 {
				t.Errorf("cell %v old = %v, want 10", cell, ch.Old[cell])
			}
		}
	}
}

func TestLevelPrecisionIdempotent(t *testing.T) {
	terrain := newGridTerrain(CellKey{-6, -6}, CellKey{6, 6}, 10)
	terrain.scale.Y = 3
	tool := &Level{Level: 7, Precision: true}
	stroke(t, tool, InputPrimary, 4, 1, origin, Tile{Terrain: terrain})
	first := terrain.snapshot()

	ch := heightChange(t, stroke(t, tool, InputPrimary, 4, 1, origin, Tile{Terrain: terrain}))
	for cell := range ch.New {
		if ch.New[cell] != ch.Old[cell] {
			t.Errorf("cell %v changed on second pass: %v -> %v", cell, ch.Old[cell], ch.New[cell])
		}
	}
	for i, h := range terrain.snapshot() {
		if h != first[i] {
			t.Fatalf("height %d changed from %v to %v", i, first[i], h)
		}
	}
}

func TestLevelGraduatedNeverOvershoots(t *testing.T) {
	terrain := newGridTerrain(CellKey{-6, -6}, CellKey{6, 6}, 0)
	terrain.set(CellKey{1, 0}, 5)
	tool := &Level{Level: 2}

	rec := &recorder{}
	c := NewToolController(rec)
	c.SetTool(tool)
	c.SetBrush(4, 1.5)
	c.Bind(Tile{Terrain: terrain})
	_ = c.StartPainting(InputPrimary, noRotation, origin)
	for i := 0; i < 20; i++ {
		_ = c.UpdatePainting(noRotation, origin, 0.016)
	}
	_ = c.FinishPainting(noRotation, origin)

	ch := heightChange(t, rec.last())
	for cell, h := range ch.New {
		old := ch.Old[cell]
		if old < 2 && h > 2+1e-4 {
			t.Errorf("cell %v rose past level: %v", cell, h)
		}
		if old > 2 && h < 2-1e-4 {
			t.Errorf("cell %v sank past level: %v", cell, h)
		}
	}
	if got := terrain.HeightAt(CellKey{0, 0}); !approxEqual(got, 2, 1e-4) {
		t.Errorf("center = %v, want 2", got)
	}
	if got := terrain.HeightAt(CellKey{1, 0}); !approxEqual(got, 2, 1e-4) {
		t.Errorf("high cell = %v, want 2", got)
	}
}

func TestLevelGraduatedDiscardsTinySteps(t *testing.T) {
	terrain := newGridTerrain(CellKey{-3, -3}, CellKey{3, 3}, 2)
	terrain.set(CellKey{0, 0}, 2.0005)
	ch := stroke(t, &Level{Level: 2}, InputPrimary, 2, 1, origin, Tile{Terrain: terrain})
	if ch.Len() != 0 {
		t.Errorf("tracked %d cells, want 0", ch.Len())
	}
}

func TestLevelMarker(t *testing.T) {
	terrain := newGridTerrain(CellKey{-4, -4}, CellKey{4, 4}, 0)
	terrain.trans.Y = 1
	tool := &Level{UseMarker: true, Precision: true}

	rec := &recorder{}
	c := NewToolController(rec)
	c.SetTool(tool)
	c.SetBrush(2, 1)
	c.Bind(Tile{Terrain: terrain})

	marker := math.Vec3{X: 3, Y: 6, Z: 3}
	if err := c.StartPainting(InputSecondaryWithModifier, noRotation, marker); err != nil {
		t.Fatal(err)
	}
	if c.Painting() || len(rec.ops) != 0 {
		t.Fatal("placing a marker should not start a gesture")
	}
	if tool.Marker != marker {
		t.Fatalf("marker = %v, want %v", tool.Marker, marker)
	}

	contact := math.Vec3{Y: 1}
	_ = c.StartPainting(InputPrimary, noRotation, contact)
	_ = c.FinishPainting(noRotation, contact)
	if got := terrain.HeightAt(CellKey{0, 0}); got != 5 {
		t.Errorf("height = %v, want 5", got)
	}
}

func TestSmoothFlattensSpike(t *testing.T) {
	terrain := newGridTerrain(CellKey{-5, -5}, CellKey{5, 5}, 0)
	terrain.set(CellKey{0, 0}, 10)
	ch := heightChange(t, stroke(t, &Smooth{}, InputPrimary, 2, 0.5, origin, Tile{Terrain: terrain}))

	if ch.Old[CellKey{0, 0}] != 10 {
		t.Errorf("old center = %v, want 10", ch.Old[CellKey{0, 0}])
	}
	center := ch.New[CellKey{0, 0}]
	if !(center < 10) || !(center > 0) {
		t.Errorf("center = %v, want within (0, 10)", center)
	}
	if !(ch.New[CellKey{1, 0}] > 0) {
		t.Errorf("neighbour not raised: %v", ch.New[CellKey{1, 0}])
	}
}

func TestSmoothReadsSmoothedNeighbours(t *testing.T) {
	terrain := newGridTerrain(CellKey{-3, -3}, CellKey{3, 3}, 0)
	terrain.set(CellKey{0, -1}, 5)
	brush := NewFootprint(1.1, 1)
	g := &Gesture{Input: InputPrimary, Tiles: []Tile{{Terrain: terrain}}, Heights: NewHeightEditSession()}
	g.Heights.Begin(terrain)
	if err := (&Smooth{}).Apply(g, Pass{Input: InputPrimary, Brush: brush}); err != nil {
		t.Fatal(err)
	}
	// (0,-1) is visited before (0,0): it averages to 1 (5/5), then the
	// center reads the already smoothed value: (0+1)/5 = 0.2.
	if got := terrain.HeightAt(CellKey{0, -1}); !approxEqual(got, 1, 1e-6) {
		t.Errorf("(0,-1) = %v, want 1", got)
	}
	if got := terrain.HeightAt(CellKey{0, 0}); !approxEqual(got, 0.2, 1e-6) {
		t.Errorf("(0,0) = %v, want 0.2", got)
	}
}

func TestSlopePrecision(t *testing.T) {
	terrain := newGridTerrain(CellKey{-2, -2}, CellKey{16, 2}, 0)
	tool := &Slope{
		Base:      math.Vec3{X: 0, Y: 0, Z: 0},
		Peak:      math.Vec3{X: 10, Y: 5, Z: 0},
		Precision: true,
	}
	stroke(t, tool, InputPrimary, 20, 1, math.Vec3{X: 5}, Tile{Terrain: terrain})

	// Flat cells project onto the ramp at t = 0.08x.
	for x := 1; x <= 8; x++ {
		got := terrain.HeightAt(CellKey{x, 0})
		if !(got > 0 && got < 5) {
			t.Errorf("x=%d height %v outside (0, 5)", x, got)
		}
		if x > 1 && !(got > terrain.HeightAt(CellKey{x - 1, 0})) {
			t.Errorf("ramp not increasing at x=%d", x)
		}
	}
	if got := terrain.HeightAt(CellKey{-2, 0}); got != 0 {
		t.Errorf("cell behind lower marker = %v, want 0", got)
	}
	if got := terrain.HeightAt(CellKey{16, 0}); got != 5 {
		t.Errorf("cell beyond higher marker = %v, want 5", got)
	}
}

func TestSlopeMarkersSwap(t *testing.T) {
	a := newGridTerrain(CellKey{-2, -2}, CellKey{12, 2}, 0)
	b := newGridTerrain(CellKey{-2, -2}, CellKey{12, 2}, 0)
	up := &Slope{Base: math.Vec3{}, Peak: math.Vec3{X: 10, Y: 5}, Precision: true}
	down := &Slope{Base: math.Vec3{X: 10, Y: 5}, Peak: math.Vec3{}, Precision: true}
	stroke(t, up, InputPrimary, 20, 1, math.Vec3{X: 5}, Tile{Terrain: a})
	stroke(t, down, InputPrimary, 20, 1, math.Vec3{X: 5}, Tile{Terrain: b})
	for i := range a.heights {
		if a.heights[i] != b.heights[i] {
			t.Fatalf("swapped markers produced different ramps at %d: %v vs %v", i, a.heights[i], b.heights[i])
		}
	}
}

func TestSlopeLock(t *testing.T) {
	terrain := newGridTerrain(CellKey{-10, -10}, CellKey{20, 10}, 0)
	lower := math.Vec3{}
	higher := math.Vec3{X: 10, Y: 5}
	tool := &Slope{Base: lower, Peak: higher, Lock: true, Precision: true}
	ch := heightChange(t, stroke(t, tool, InputPrimary, 30, 1, math.Vec3{X: 5}, Tile{Terrain: terrain}))

	if len(ch.New) == 0 {
		t.Fatal("lock excluded every cell")
	}
	for cell, old := range ch.Old {
		p := math.Vec3{X: float32(cell.X), Y: old, Z: float32(cell.Z)}
		_, along := p.ProjectOnLine(lower, higher)
		if !(along > 0 && along < 1) {
			t.Errorf("cell %v projects outside the segment (t=%v)", cell, along)
		}
	}
	for _, x := range []int{-5, 0, 13, 15} {
		if _, ok := ch.New[CellKey{x, 0}]; ok {
			t.Errorf("cell x=%d outside the lock planes was edited", x)
		}
	}
	if _, ok := ch.New[CellKey{5, 0}]; !ok {
		t.Error("cell between the markers was not edited")
	}
}

func TestSlopeDegenerateMarkers(t *testing.T) {
	terrain := newGridTerrain(CellKey{-3, -3}, CellKey{3, 3}, 0)
	marker := math.Vec3{Y: 2}
	tool := &Slope{Base: marker, Peak: marker, Precision: true}
	ch := heightChange(t, stroke(t, tool, InputPrimary, 2, 1, origin, Tile{Terrain: terrain}))
	for cell, h := range ch.New {
		if h != 2 {
			t.Errorf("cell %v = %v, want 2", cell, h)
		}
	}
}

func TestSlopePlaceMarkers(t *testing.T) {
	s := &Slope{}
	base := math.Vec3{X: 1}
	peak := math.Vec3{X: 2, Y: 3}
	if !s.PlaceMarker(InputSecondaryWithModifier, base) || !s.PlaceMarker(InputSecondary, peak) {
		t.Fatal("secondary inputs should place markers")
	}
	if s.PlaceMarker(InputPrimary, math.Vec3{}) {
		t.Error("primary input should paint")
	}
	if s.Base != base || s.Peak != peak {
		t.Errorf("markers = %v, %v", s.Base, s.Peak)
	}
}

func paintTerrain() (*gridTerrain, math.Vec3) {
	terrain := newGridTerrain(CellKey{0, 0}, CellKey{16, 16}, 0)
	return terrain, terrainCenter(terrain)
}

func TestPaintChannelClamp(t *testing.T) {
	for _, in := range []Input{InputPrimary, InputSecondary} {
		terrain, center := paintTerrain()
		buf := newPixelBuffer(16, 16, FormatRGBA8)
		for i := range buf.data {
			buf.data[i] = 128
		}
		rec := &recorder{}
		c := NewToolController(rec)
		c.SetTool(&Paint{})
		c.SetBrush(4, 5)
		c.Bind(Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{buf}})
		_ = c.StartPainting(in, noRotation, center)
		for i := 0; i < 10; i++ {
			_ = c.UpdatePainting(noRotation, center, 0.016)
		}
		if err := c.FinishPainting(noRotation, center); err != nil {
			t.Fatal(err)
		}

		op := rec.last().(*AlphaOperation)
		for idx, col := range op.Changes[0].New {
			for ch, v := range col {
				if v < 0 || v > 1 {
					t.Errorf("%v: pixel %d channel %d = %v", in, idx, ch, v)
				}
			}
		}
		px := (8*16 + 8) * 4
		want := byte(255)
		if in == InputSecondary {
			want = 0
		}
		if buf.data[px] != want {
			t.Errorf("%v: center red = %d, want %d", in, buf.data[px], want)
		}
	}
}

func TestPaintEraseTogglesSign(t *testing.T) {
	deltas := make(map[Input]map[int]float32)
	for _, in := range []Input{InputPrimary, InputSecondary} {
		terrain, center := paintTerrain()
		buf := newPixelBuffer(16, 16, FormatRGBA8)
		for i := range buf.data {
			buf.data[i] = 128
		}
		op := stroke(t, &Paint{Layer: 1}, in, 3, 0.05, center,
			Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{buf}}).(*AlphaOperation)
		d := make(map[int]float32)
		for idx, col := range op.Changes[0].New {
			d[idx] = col[1] - op.Changes[0].Old[idx][1]
			if col[0] != op.Changes[0].Old[idx][0] {
				t.Errorf("%v: red channel changed at %d", in, idx)
			}
		}
		deltas[in] = d
	}

	paint, erase := deltas[InputPrimary], deltas[InputSecondary]
	if len(paint) == 0 || len(paint) != len(erase) {
		t.Fatalf("pixel counts %d vs %d", len(paint), len(erase))
	}
	nonzero := 0
	for idx, d := range paint {
		if !approxEqual(d, -erase[idx], 2.0/255+1e-6) {
			t.Errorf("pixel %d: paint %v erase %v", idx, d, erase[idx])
		}
		if d > 0 {
			nonzero++
			if !(erase[idx] < 0) {
				t.Errorf("pixel %d: erase delta %v, want < 0", idx, erase[idx])
			}
		}
	}
	if nonzero == 0 {
		t.Error("paint changed no pixels")
	}
}

func TestPaintABGRLayout(t *testing.T) {
	terrain, center := paintTerrain()
	buf := newPixelBuffer(16, 16, FormatABGR8)
	stroke(t, &Paint{Layer: 3}, InputPrimary, 2, 1, center,
		Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{buf}})

	px := (8*16 + 8) * 4
	// Layer 3 is the alpha channel, stored first in ABGR.
	if buf.data[px] != 255 {
		t.Errorf("alpha byte = %d, want 255", buf.data[px])
	}
	for i := 1; i < 4; i++ {
		if buf.data[px+i] != 0 {
			t.Errorf("byte %d = %d, want 0", i, buf.data[px+i])
		}
	}
}

func TestPaintLayerSelectsMap(t *testing.T) {
	terrain, center := paintTerrain()
	first := newPixelBuffer(16, 16, FormatRGBA8)
	second := newPixelBuffer(16, 16, FormatRGBA8)
	stroke(t, &Paint{Layer: 5}, InputPrimary, 2, 1, center,
		Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{first, second}})

	px := (8*16 + 8) * 4
	if second.data[px+1] != 255 {
		t.Errorf("second map green = %d, want 255", second.data[px+1])
	}
	for _, b := range first.data {
		if b != 0 {
			t.Fatal("first map was painted")
		}
	}

	// A layer with no map is skipped.
	op := stroke(t, &Paint{Layer: 9}, InputPrimary, 2, 1, center,
		Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{first, second}})
	if op.Len() != 0 {
		t.Errorf("missing layer tracked %d pixels", op.Len())
	}
}

func TestPaintOutsideTile(t *testing.T) {
	terrain, _ := paintTerrain()
	buf := newPixelBuffer(16, 16, FormatRGBA8)
	op := stroke(t, &Paint{}, InputPrimary, 3, 1, math.Vec3{X: 100, Z: -50},
		Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{buf}})
	if op.Len() != 0 {
		t.Errorf("tracked %d pixels outside the tile", op.Len())
	}
}

func TestPaintUnsupportedFormat(t *testing.T) {
	terrain, center := paintTerrain()
	buf := newPixelBuffer(16, 16, FormatUnknown)
	rec := &recorder{}
	c := NewToolController(rec)
	c.SetTool(&Paint{})
	c.Bind(Tile{Terrain: terrain, AlphaMaps: []AlphaBuffer{buf}})

	err := c.StartPainting(InputPrimary, noRotation, center)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if c.Painting() {
		t.Error("controller should return to idle after a format error")
	}
	if len(rec.ops) != 1 || rec.ops[0].Len() != 0 {
		t.Error("failed gesture should commit an empty operation")
	}
	for _, b := range buf.data {
		if b != 0 {
			t.Fatal("buffer modified")
		}
	}
}

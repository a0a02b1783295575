package sculpt

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// gridTerrain is an in-memory Terrain covering cells lo..hi inclusive.
type gridTerrain struct {
	lo, hi  CellKey
	heights []float32
	scale   math.Vec3
	trans   math.Vec3

	writes  int
	bounded int
}

func newGridTerrain(lo, hi CellKey, fill float32) *gridTerrain {
	w := hi.X - lo.X + 1
	d := hi.Z - lo.Z + 1
	t := &gridTerrain{
		lo:      lo,
		hi:      hi,
		heights: make([]float32, w*d),
		scale:   math.Vec3{X: 1, Y: 1, Z: 1},
	}
	for i := range t.heights {
		t.heights[i] = fill
	}
	return t
}

func (t *gridTerrain) index(c CellKey) (int, bool) {
	if c.X < t.lo.X || c.X > t.hi.X || c.Z < t.lo.Z || c.Z > t.hi.Z {
		return 0, false
	}
	w := t.hi.X - t.lo.X + 1
	return (c.Z-t.lo.Z)*w + (c.X - t.lo.X), true
}

func (t *gridTerrain) HeightAt(c CellKey) float32 {
	i, ok := t.index(c)
	if !ok {
		return float32(gomath.NaN())
	}
	return t.heights[i]
}

func (t *gridTerrain) set(c CellKey, h float32) {
	if i, ok := t.index(c); ok {
		t.heights[i] = h
	}
}

func (t *gridTerrain) SetHeights(cells []CellKey, heights []float32) {
	t.writes++
	for i, c := range cells {
		t.set(c, heights[i])
	}
}

func (t *gridTerrain) GridBounds() (CellKey, CellKey) { return t.lo, t.hi }
func (t *gridTerrain) LocalScale() math.Vec3          { return t.scale }
func (t *gridTerrain) WorldTranslation() math.Vec3    { return t.trans }
func (t *gridTerrain) UpdateModelBound()              { t.bounded++ }

func (t *gridTerrain) snapshot() []float32 {
	return append([]float32(nil), t.heights...)
}

// pixelBuffer is an in-memory AlphaBuffer.
type pixelBuffer struct {
	data          []byte
	w, h          int
	format        PixelFormat
	changes       int
	updatesNeeded int
}

func newPixelBuffer(w, h int, format PixelFormat) *pixelBuffer {
	return &pixelBuffer{data: make([]byte, w*h*4), w: w, h: h, format: format}
}

func (b *pixelBuffer) Data() []byte        { return b.data }
func (b *pixelBuffer) Size() (int, int)    { return b.w, b.h }
func (b *pixelBuffer) Format() PixelFormat { return b.format }
func (b *pixelBuffer) IncrementChange()    { b.changes++ }
func (b *pixelBuffer) DecrementChanges()   { b.changes-- }
func (b *pixelBuffer) SetUpdateNeeded()    { b.updatesNeeded++ }

// recorder is a Consumer that keeps every pushed operation.
type recorder struct {
	ops []Operation
}

func (r *recorder) Push(op Operation) { r.ops = append(r.ops, op) }

func (r *recorder) last() Operation {
	if len(r.ops) == 0 {
		return nil
	}
	return r.ops[len(r.ops)-1]
}

func approxEqual(a, b, eps float32) bool {
	return math.Abs(a-b) <= eps
}

var origin = math.Vec3{}
var noRotation = math.QuatIdentity()

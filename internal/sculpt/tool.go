package sculpt

import "github.com/Faultbox/midgard-sculpt/pkg/math"

// Target is the property a tool edits.
type Target int

const (
	TargetHeights Target = iota
	TargetAlpha
)

// String returns the operation name for the target.
func (t Target) String() string {
	if t == TargetAlpha {
		return "alpha"
	}
	return "heights"
}

// Pass is one evaluation of a tool during a gesture.
type Pass struct {
	Input    Input
	Rotation math.Quat
	Contact  math.Vec3
	// Brush is already oriented by Rotation.
	Brush Footprint
}

// Gesture is the state shared by every pass between StartPainting and
// FinishPainting.
type Gesture struct {
	Input   Input
	Tiles   []Tile
	Heights *HeightEditSession
	Alpha   *AlphaEditSession
}

// Tool is one sculpt or paint algorithm.
type Tool interface {
	Name() string
	Target() Target
	// Accepts reports whether in starts a gesture with this tool.
	Accepts(in Input) bool
	// Apply runs one edit pass. Only pixel layout errors are returned.
	Apply(g *Gesture, p Pass) error
}

// MarkerPlacer is implemented by tools driven by 3D markers. PlaceMarker
// reports true when in moved a marker instead of starting a gesture.
type MarkerPlacer interface {
	PlaceMarker(in Input, contact math.Vec3) bool
}

// heightBatch collects the writes of one pass over one terrain.
type heightBatch struct {
	cells   []CellKey
	heights []float32
}

func (b *heightBatch) add(cell CellKey, h float32) {
	b.cells = append(b.cells, cell)
	b.heights = append(b.heights, h)
}

func (b *heightBatch) flush(t Terrain) {
	if len(b.cells) == 0 {
		return
	}
	t.SetHeights(b.cells, b.heights)
	t.UpdateModelBound()
	b.cells = b.cells[:0]
	b.heights = b.heights[:0]
}

// cellEdit computes the new height of a cell currently at h, offset (dx, dz)
// from the contact point. ok is false when the cell is left untouched.
type cellEdit func(t Terrain, cell CellKey, h, dx, dz float32) (float32, bool)

// sculptPass applies edit to every cell under the brush on every tile and
// writes each tile's results in one batch.
func sculptPass(g *Gesture, p Pass, edit cellEdit) {
	var batch heightBatch
	for _, tile := range g.Tiles {
		t := tile.Terrain
		if t == nil {
			continue
		}
		forEachCell(t, p.Brush, p.Contact, func(cell CellKey, dx, dz float32) {
			h := t.HeightAt(cell)
			if isNaN(h) {
				return
			}
			next, ok := edit(t, cell, h, dx, dz)
			if !ok {
				return
			}
			g.Heights.Track(t, cell)
			batch.add(cell, next)
		})
		batch.flush(t)
	}
}

// graduated returns the new local height of a cell moving toward a world
// space target, or ok false when the step is negligible.
func graduated(t Terrain, h, target, power, weight float32) (float32, bool) {
	scaleY := t.LocalScale().Y
	adj, ok := approach(h*scaleY, target, power, weight)
	if !ok {
		return 0, false
	}
	return h + adj/scaleY, true
}

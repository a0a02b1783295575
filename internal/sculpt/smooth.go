package sculpt

// Smooth blends each cell toward the average of itself and its four
// neighbours. Cells are written one at a time, so later cells of a pass read
// already smoothed neighbours.
type Smooth struct{}

// Name implements Tool.
func (*Smooth) Name() string { return "smooth" }

// Target implements Tool.
func (*Smooth) Target() Target { return TargetHeights }

// Accepts implements Tool.
func (*Smooth) Accepts(in Input) bool { return in == InputPrimary }

var neighbours = [4]CellKey{{X: -1}, {X: 1}, {Z: -1}, {Z: 1}}

// Apply implements Tool.
func (*Smooth) Apply(g *Gesture, p Pass) error {
	blend := p.Brush.Power
	if blend > MaxSmoothPower {
		blend = MaxSmoothPower
	}
	cell := make([]CellKey, 1)
	height := make([]float32, 1)
	for _, tile := range g.Tiles {
		t := tile.Terrain
		if t == nil {
			continue
		}
		touched := false
		forEachCell(t, p.Brush, p.Contact, func(c CellKey, _, _ float32) {
			center := t.HeightAt(c)
			if isNaN(center) {
				return
			}
			sum, count := center, float32(1)
			for _, n := range neighbours {
				h := t.HeightAt(CellKey{X: c.X + n.X, Z: c.Z + n.Z})
				if isNaN(h) {
					continue
				}
				sum += h
				count++
			}
			diff := sum/count - center
			g.Heights.Track(t, c)
			cell[0], height[0] = c, center+diff*blend
			t.SetHeights(cell, height)
			touched = true
		})
		if touched {
			t.UpdateModelBound()
		}
	}
	return nil
}

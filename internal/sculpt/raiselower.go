package sculpt

// RaiseLower adds the brush power to every cell under the brush, weighted by
// radius falloff. Secondary input lowers instead.
type RaiseLower struct{}

// Name implements Tool.
func (*RaiseLower) Name() string { return "raise_lower" }

// Target implements Tool.
func (*RaiseLower) Target() Target { return TargetHeights }

// Accepts implements Tool.
func (*RaiseLower) Accepts(in Input) bool {
	return in == InputPrimary || in == InputSecondary
}

// Apply implements Tool.
func (*RaiseLower) Apply(g *Gesture, p Pass) error {
	power := p.Brush.Power
	if p.Input != InputPrimary {
		power = -power
	}
	sculptPass(g, p, func(_ Terrain, _ CellKey, h, dx, dz float32) (float32, bool) {
		return h + p.Brush.RadiusFalloff(dx, dz)*power, true
	})
	return nil
}

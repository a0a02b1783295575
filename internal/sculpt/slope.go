package sculpt

import "github.com/Faultbox/midgard-sculpt/pkg/math"

// Slope shapes cells into the ramp running between two markers. The lower
// marker is resolved on every pass, so the ramp never inverts while the
// markers are dragged.
type Slope struct {
	Base math.Vec3
	Peak math.Vec3
	// Precision sets cells onto the ramp in one step.
	Precision bool
	// Lock restricts edits to cells between the planes through each marker.
	Lock bool
}

// Name implements Tool.
func (*Slope) Name() string { return "slope" }

// Target implements Tool.
func (*Slope) Target() Target { return TargetHeights }

// Accepts implements Tool.
func (*Slope) Accepts(in Input) bool { return in == InputPrimary }

// PlaceMarker sets the base marker on secondary input with the modifier and
// the peak marker on plain secondary input.
func (s *Slope) PlaceMarker(in Input, contact math.Vec3) bool {
	switch in {
	case InputSecondaryWithModifier:
		s.Base = contact
	case InputSecondary:
		s.Peak = contact
	default:
		return false
	}
	return true
}

// ends returns the markers ordered by height.
func (s *Slope) ends() (lower, higher math.Vec3) {
	if s.Base.Y > s.Peak.Y {
		return s.Peak, s.Base
	}
	return s.Base, s.Peak
}

// Apply implements Tool.
func (s *Slope) Apply(g *Gesture, p Pass) error {
	lower, higher := s.ends()
	total := math.Max(lower.Distance(higher), MinSlopeDistance)
	axis := higher.Sub(lower)
	lowPlane := math.PlaneFromOriginNormal(lower, axis)
	highPlane := math.PlaneFromOriginNormal(higher, axis)

	sculptPass(g, p, func(t Terrain, cell CellKey, h, dx, dz float32) (float32, bool) {
		scale := t.LocalScale()
		trans := t.WorldTranslation()
		world := math.Vec3{
			X: float32(cell.X)*scale.X + trans.X,
			Y: h*scale.Y + trans.Y,
			Z: float32(cell.Z)*scale.Z + trans.Z,
		}
		if s.Lock && (lowPlane.WhichSide(world) != math.SidePositive ||
			highPlane.WhichSide(world) != math.SideNegative) {
			return 0, false
		}

		projected, along := world.ProjectOnLine(lower, higher)
		// Behind the lower marker the ramp holds at 0, past the higher one at 1.
		fraction := float32(0)
		if along > 0 {
			fraction = math.Min(lower.Distance(projected)/total, 1)
		}
		desired := math.Lerp(lower.Y, higher.Y, fraction) - trans.Y
		if s.Precision {
			return desired / scale.Y, true
		}
		return graduated(t, h, desired, p.Brush.Power, p.Brush.RadiusFalloff(dx, dz))
	})
	return nil
}

package sculpt

import "github.com/Faultbox/midgard-sculpt/pkg/math"

// Level moves cells toward a fixed height or toward the height of a marker.
type Level struct {
	// Level is the target height in world units above the terrain origin.
	Level float32
	// UseMarker selects Marker.Y instead of Level.
	UseMarker bool
	Marker    math.Vec3
	// Precision sets cells to the target in one step.
	Precision bool
}

// Name implements Tool.
func (*Level) Name() string { return "level" }

// Target implements Tool.
func (*Level) Target() Target { return TargetHeights }

// Accepts implements Tool.
func (*Level) Accepts(in Input) bool { return in == InputPrimary }

// PlaceMarker moves the level marker on secondary input with the modifier.
func (l *Level) PlaceMarker(in Input, contact math.Vec3) bool {
	if in != InputSecondaryWithModifier {
		return false
	}
	l.Marker = contact
	return true
}

// target returns the desired height in world units relative to t.
func (l *Level) target(t Terrain) float32 {
	if l.UseMarker {
		return l.Marker.Y - t.WorldTranslation().Y
	}
	return l.Level
}

// Apply implements Tool.
func (l *Level) Apply(g *Gesture, p Pass) error {
	sculptPass(g, p, func(t Terrain, _ CellKey, h, dx, dz float32) (float32, bool) {
		target := l.target(t)
		if l.Precision {
			return target / t.LocalScale().Y, true
		}
		return graduated(t, h, target, p.Brush.Power, p.Brush.RadiusFalloff(dx, dz))
	})
	return nil
}

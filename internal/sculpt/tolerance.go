package sculpt

// Numeric tolerances shared by the sculpt tools.
const (
	// OvershootEpsilonFactor scales brush power into the slack allowed past a
	// graduated target before the step is clamped onto it.
	OvershootEpsilonFactor = 0.0001
	// MinHeightChange is the smallest graduated step that is applied.
	MinHeightChange = 0.001
	// MinSlopeDistance floors the marker distance of a degenerate slope.
	MinSlopeDistance = 1e-5
	// MaxSmoothPower caps the blend factor of the smooth tool.
	MaxSmoothPower = 2.0
)

// approach returns the graduated step from current toward target for a brush
// of the given power and falloff weight. ok is false when the step is too
// small to apply.
func approach(current, target, power, weight float32) (adj float32, ok bool) {
	switch {
	case current < target:
		adj = 1
	case current > target:
		adj = -1
	}
	adj *= power * weight

	eps := OvershootEpsilonFactor * power
	if adj > 0 && current+adj-target > eps {
		adj = target - current
	} else if adj < 0 && target-(current+adj) > eps {
		adj = target - current
	}

	if adj > -MinHeightChange && adj < MinHeightChange {
		return 0, false
	}
	return adj, true
}

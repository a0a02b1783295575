package math

// Side is the result of classifying a point against a Plane.
type Side int

const (
	SideNone Side = iota
	SidePositive
	SideNegative
)

// Plane is the set of points p where Normal.Dot(p) == Constant.
type Plane struct {
	Normal   Vec3
	Constant float32
}

// PlaneFromOriginNormal returns the plane through origin facing normal.
// The normal is normalized.
func PlaneFromOriginNormal(origin, normal Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Constant: n.Dot(origin)}
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p Vec3) float32 {
	return pl.Normal.Dot(p) - pl.Constant
}

// WhichSide classifies p. Points on the plane report SideNone.
func (pl Plane) WhichSide(p Vec3) Side {
	d := pl.Distance(p)
	switch {
	case d > 0:
		return SidePositive
	case d < 0:
		return SideNegative
	default:
		return SideNone
	}
}

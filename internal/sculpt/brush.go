package sculpt

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// Shape decides whether an offset from the brush center lies inside a brush
// of the given size. Points on the boundary are outside.
type Shape interface {
	Name() string
	Contains(dx, dz, size float32) bool
}

// Disc is a flat circular brush.
type Disc struct{}

// Name implements Shape.
func (Disc) Name() string { return "disc" }

// Contains implements Shape.
func (Disc) Contains(dx, dz, size float32) bool {
	return dx*dx+dz*dz < size*size
}

// Square is an axis-aligned square brush with half-width size. It follows
// the gesture rotation.
type Square struct{}

// Name implements Shape.
func (Square) Name() string { return "square" }

// Contains implements Shape.
func (Square) Contains(dx, dz, size float32) bool {
	return math.Abs(dx) < size && math.Abs(dz) < size
}

// ShapeByName returns the shape registered under name.
func ShapeByName(name string) (Shape, bool) {
	switch name {
	case "", "disc":
		return Disc{}, true
	case "square":
		return Square{}, true
	}
	return nil, false
}

// Footprint is a brush: its size in world units, its power and its shape.
type Footprint struct {
	Size  float32
	Power float32
	Shape Shape

	// inverse undoes the gesture yaw before shape tests.
	inverse math.Quat
	rotated bool
}

// NewFootprint returns a disc footprint.
func NewFootprint(size, power float32) Footprint {
	return Footprint{Size: size, Power: power, Shape: Disc{}}
}

// Oriented returns a copy of f that evaluates offsets in the brush frame
// rotated by the yaw of rot.
func (f Footprint) Oriented(rot math.Quat) Footprint {
	yaw := rot.Yaw()
	if yaw == 0 {
		f.rotated = false
		return f
	}
	f.inverse = math.QuatFromAxisAngle(math.Vec3{Y: 1}, -yaw)
	f.rotated = true
	return f
}

// Contains reports whether the offset (dx, dz) lies strictly inside the brush.
func (f Footprint) Contains(dx, dz float32) bool {
	if f.Size <= 0 {
		return false
	}
	if f.rotated {
		v := f.inverse.Rotate(math.Vec3{X: dx, Z: dz})
		dx, dz = v.X, v.Z
	}
	shape := f.Shape
	if shape == nil {
		shape = Disc{}
	}
	return shape.Contains(dx, dz, f.Size)
}

// FalloffWeight is the radius-percent weight of an offset.
func (f Footprint) FalloffWeight(dx, dz float32) float32 {
	return f.RadiusFalloff(dx, dz)
}

// RadiusFalloff returns 1 - distance/size clamped to [0, 1].
func (f Footprint) RadiusFalloff(dx, dz float32) float32 {
	if f.Size <= 0 {
		return 0
	}
	dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	return math.Clamp(1-dist/f.Size, 0, 1)
}

// SquaredFalloff returns 1 - distance²/size² clamped to [0, 1].
func (f Footprint) SquaredFalloff(dx, dz float32) float32 {
	if f.Size <= 0 {
		return 0
	}
	return math.Clamp(1-(dx*dx+dz*dz)/(f.Size*f.Size), 0, 1)
}

// radiusSteps returns how many grid steps along one axis can reach a brush of
// the given size. One guard step covers contact points between grid lines.
func radiusSteps(size, axisScale float32) int {
	if axisScale <= 0 {
		return 0
	}
	return int(size/axisScale) + 1
}

// forEachCell visits every cell of t whose offset from contact lies inside
// brush. The visit order is row by row along +Z, then +X.
func forEachCell(t Terrain, brush Footprint, contact math.Vec3, visit func(cell CellKey, dx, dz float32)) {
	scale := t.LocalScale()
	local := worldToLocal(t, contact)
	cx := int(gomath.Round(float64(local.X)))
	cz := int(gomath.Round(float64(local.Z)))
	stepsX := radiusSteps(brush.Size, scale.X)
	stepsZ := radiusSteps(brush.Size, scale.Z)

	for z := -stepsZ; z <= stepsZ; z++ {
		for x := -stepsX; x <= stepsX; x++ {
			cell := CellKey{X: cx + x, Z: cz + z}
			dx := (float32(cell.X) - local.X) * scale.X
			dz := (float32(cell.Z) - local.Z) * scale.Z
			if !brush.Contains(dx, dz) {
				continue
			}
			visit(cell, dx, dz)
		}
	}
}

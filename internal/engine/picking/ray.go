// Package picking turns screen positions into contact points on terrain.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{
		Min: [3]float32{a.X, a.Y, a.Z},
		Max: [3]float32{b.X, b.Y, b.Z},
	}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	p := inv.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}
	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}
	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// It returns the entry and exit distances along the ray; entry is clamped to
// zero when the ray starts inside the box.
func (r Ray) IntersectAABB(box AABB) (entry, exit float32, hit bool) {
	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[i] - origin[i]) / dir[i]
		t2 := (box.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return max(tmin, 0), tmax, true
}

package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

const (
	// marchSteps is the number of samples taken along the ray inside the
	// terrain bounds before refining.
	marchSteps = 256
	// refineSteps is the number of bisection steps on a bracketed hit.
	refineSteps = 24
	// boundsMargin pads the vertical extent of flat terrain.
	boundsMargin = 1
)

// PickHeightmap returns the first point where r crosses the surface of h.
func PickHeightmap(r Ray, h *terrain.Heightmap) (math.Vec3, bool) {
	box := AABB{Min: h.Bounds.Min, Max: h.Bounds.Max}
	box.Min[1] -= boundsMargin
	box.Max[1] += boundsMargin
	entry, exit, ok := r.IntersectAABB(box)
	if !ok {
		return math.Vec3{}, false
	}

	// above returns the signed height of the ray over the surface at t.
	above := func(t float32) (float32, bool) {
		p := r.At(t)
		ground := h.InterpolatedHeight(p.X, p.Z)
		if gomath.IsNaN(float64(ground)) {
			return 0, false
		}
		return p.Y - ground, true
	}

	step := (exit - entry) / marchSteps
	if step <= 0 {
		if d, ok := above(entry); ok && d <= 0 {
			return r.At(entry), true
		}
		return math.Vec3{}, false
	}

	prevT := entry
	d, prevOK := above(entry)
	if prevOK && d <= 0 {
		return r.At(entry), true
	}
	for i := 1; i <= marchSteps; i++ {
		t := entry + step*float32(i)
		d, ok := above(t)
		if ok && d <= 0 {
			if !prevOK {
				return r.At(t), true
			}
			return r.At(bisect(above, prevT, t)), true
		}
		prevT, prevOK = t, ok
	}
	return math.Vec3{}, false
}

// bisect narrows a bracket where above changes sign from positive at lo to
// non-positive at hi.
func bisect(above func(float32) (float32, bool), lo, hi float32) float32 {
	for i := 0; i < refineSteps; i++ {
		mid := (lo + hi) / 2
		d, ok := above(mid)
		if ok && d <= 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// PickTiles returns the nearest hit of r on any of the heightmaps and the
// index of the heightmap that was hit.
func PickTiles(r Ray, tiles ...*terrain.Heightmap) (math.Vec3, int, bool) {
	best := -1
	var bestPoint math.Vec3
	bestDist := float32(gomath.MaxFloat32)
	for i, h := range tiles {
		p, ok := PickHeightmap(r, h)
		if !ok {
			continue
		}
		if d := p.Sub(r.Origin).LengthSquared(); d < bestDist {
			best, bestPoint, bestDist = i, p, d
		}
	}
	return bestPoint, best, best >= 0
}

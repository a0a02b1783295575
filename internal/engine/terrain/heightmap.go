package terrain

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

var _ sculpt.Terrain = (*Heightmap)(nil)

// NewHeightmap creates a flat heightmap of width x depth vertices. A centered
// heightmap places cell (0, 0) in the middle of the grid.
func NewHeightmap(width, depth int, centered bool) *Heightmap {
	h := &Heightmap{
		Altitudes: make([]float32, width*depth),
		Width:     width,
		Depth:     depth,
		Scale:     math.Vec3{X: 1, Y: 1, Z: 1},
	}
	if centered {
		h.OffsetX = -(width - 1) / 2
		h.OffsetZ = -(depth - 1) / 2
	}
	h.snapshot()
	h.UpdateModelBound()
	return h
}

// Fill sets every vertex to height.
func (h *Heightmap) Fill(height float32) {
	for i := range h.Altitudes {
		h.Altitudes[i] = height
	}
	h.UpdateModelBound()
}

// snapshot records the current altitudes as the loaded state.
func (h *Heightmap) snapshot() {
	h.built = append(h.built[:0], h.Altitudes...)
}

func (h *Heightmap) index(cell sculpt.CellKey) (int, bool) {
	x := cell.X - h.OffsetX
	z := cell.Z - h.OffsetZ
	if x < 0 || z < 0 || x >= h.Width || z >= h.Depth {
		return 0, false
	}
	return z*h.Width + x, true
}

// HeightAt returns the local height of cell, or NaN outside the grid.
func (h *Heightmap) HeightAt(cell sculpt.CellKey) float32 {
	i, ok := h.index(cell)
	if !ok {
		return float32(gomath.NaN())
	}
	return h.Altitudes[i]
}

// SetHeights writes heights[i] into cells[i]. Cells outside the grid are
// ignored.
func (h *Heightmap) SetHeights(cells []sculpt.CellKey, heights []float32) {
	for i, cell := range cells {
		if i >= len(heights) {
			return
		}
		if idx, ok := h.index(cell); ok {
			h.Altitudes[idx] = heights[i]
		}
	}
}

// GridBounds returns the first and last valid cell.
func (h *Heightmap) GridBounds() (sculpt.CellKey, sculpt.CellKey) {
	lo := sculpt.CellKey{X: h.OffsetX, Z: h.OffsetZ}
	hi := sculpt.CellKey{X: h.OffsetX + h.Width - 1, Z: h.OffsetZ + h.Depth - 1}
	return lo, hi
}

// LocalScale returns Scale.
func (h *Heightmap) LocalScale() math.Vec3 { return h.Scale }

// WorldTranslation returns Translation.
func (h *Heightmap) WorldTranslation() math.Vec3 { return h.Translation }

// UpdateModelBound recomputes Bounds from the current heights.
func (h *Heightmap) UpdateModelBound() {
	h.Revision++
	if len(h.Altitudes) == 0 {
		h.Bounds = Bounds{}
		return
	}
	lo, hi := h.GridBounds()
	minX := float32(lo.X)*h.Scale.X + h.Translation.X
	maxX := float32(hi.X)*h.Scale.X + h.Translation.X
	minZ := float32(lo.Z)*h.Scale.Z + h.Translation.Z
	maxZ := float32(hi.Z)*h.Scale.Z + h.Translation.Z
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}

	minY := float32(gomath.MaxFloat32)
	maxY := float32(-gomath.MaxFloat32)
	for _, a := range h.Altitudes {
		y := a*h.Scale.Y + h.Translation.Y
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	h.Bounds = Bounds{
		Min: [3]float32{minX, minY, minZ},
		Max: [3]float32{maxX, maxY, maxZ},
	}
}

// WorldPosition returns the world position of cell at its current height.
func (h *Heightmap) WorldPosition(cell sculpt.CellKey) math.Vec3 {
	return math.Vec3{
		X: float32(cell.X),
		Y: h.HeightAt(cell),
		Z: float32(cell.Z),
	}.Mul(h.Scale).Add(h.Translation)
}

// InterpolatedHeight returns the bilinearly interpolated world height at a
// world X/Z position, or NaN outside the grid.
func (h *Heightmap) InterpolatedHeight(worldX, worldZ float32) float32 {
	fx := (worldX-h.Translation.X)/h.Scale.X - float32(h.OffsetX)
	fz := (worldZ-h.Translation.Z)/h.Scale.Z - float32(h.OffsetZ)
	if fx < 0 || fz < 0 || fx > float32(h.Width-1) || fz > float32(h.Depth-1) {
		return float32(gomath.NaN())
	}

	return h.localAt(fx, fz)*h.Scale.Y + h.Translation.Y
}

// localAt bilinearly samples the local height at grid coordinates measured
// from the first vertex. Coordinates must lie inside the grid.
func (h *Heightmap) localAt(fx, fz float32) float32 {
	x0 := int(fx)
	z0 := int(fz)
	x1 := min(x0+1, h.Width-1)
	z1 := min(z0+1, h.Depth-1)
	fracX := fx - float32(x0)
	fracZ := fz - float32(z0)

	at := func(x, z int) float32 { return h.Altitudes[z*h.Width+x] }
	near := at(x0, z0)*(1-fracX) + at(x1, z0)*fracX
	far := at(x0, z1)*(1-fracX) + at(x1, z1)*fracX
	return near*(1-fracZ) + far*fracZ
}

package terrain

import (
	"github.com/Faultbox/midgard-sculpt/pkg/formats"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// vertexCorners lists, for a grid vertex, the tiles that share it and the
// corner of each tile that sits on it, as offsets from the vertex.
var vertexCorners = [4]struct {
	dx, dz int
	corner int
}{
	{0, 0, formats.CornerTopLeft},
	{-1, 0, formats.CornerTopRight},
	{0, -1, formats.CornerBottomLeft},
	{-1, -1, formats.CornerBottomRight},
}

// BuildHeightmap creates a heightmap with one vertex per tile corner of gnd.
// A vertex shared by several tiles takes the average of their corners.
// GND altitudes grow downward, so heights are negated and divided by
// heightScale into local units.
func BuildHeightmap(gnd *formats.GND, heightScale float32, centered bool) *Heightmap {
	if heightScale == 0 {
		heightScale = 1
	}
	width := int(gnd.Width) + 1
	depth := int(gnd.Height) + 1
	h := NewHeightmap(width, depth, centered)
	h.Scale = math.Vec3{X: gnd.Zoom, Y: heightScale, Z: gnd.Zoom}

	for vz := 0; vz < depth; vz++ {
		for vx := 0; vx < width; vx++ {
			var sum float32
			n := 0
			for _, vc := range vertexCorners {
				tile := gnd.GetTile(vx+vc.dx, vz+vc.dz)
				if tile == nil {
					continue
				}
				sum += tile.Altitude[vc.corner]
				n++
			}
			if n > 0 {
				h.Altitudes[vz*width+vx] = -(sum / float32(n)) / heightScale
			}
		}
	}
	h.snapshot()
	h.UpdateModelBound()
	return h
}

// ApplyToGND writes every vertex changed since the heightmap was built back
// into the corners of the tiles that share it. Unchanged vertices keep their
// per-tile corners, so cliffs between tiles survive. It returns the number of
// vertices written.
func (h *Heightmap) ApplyToGND(gnd *formats.GND) int {
	if int(gnd.Width)+1 != h.Width || int(gnd.Height)+1 != h.Depth {
		return 0
	}
	written := 0
	for vz := 0; vz < h.Depth; vz++ {
		for vx := 0; vx < h.Width; vx++ {
			i := vz*h.Width + vx
			if h.Altitudes[i] == h.built[i] {
				continue
			}
			alt := -h.Altitudes[i] * h.Scale.Y
			for _, vc := range vertexCorners {
				if tile := gnd.GetTile(vx+vc.dx, vz+vc.dz); tile != nil {
					tile.Altitude[vc.corner] = alt
				}
			}
			written++
		}
	}
	h.snapshot()
	return written
}

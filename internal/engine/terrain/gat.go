package terrain

import (
	"github.com/Faultbox/midgard-sculpt/pkg/formats"
)

// gatCorners gives each GAT corner's offset in half-tile steps from the
// cell's top-left corner, in GNDTile.Altitude order.
var gatCorners = [4]struct{ dx, dz int }{
	formats.CornerBottomLeft:  {0, 1},
	formats.CornerBottomRight: {1, 1},
	formats.CornerTopLeft:     {0, 0},
	formats.CornerTopRight:    {1, 0},
}

// ApplyToGAT resamples edited ground into gat, which holds 2x2 cells per
// tile. Only cells on tiles with a vertex changed since the last snapshot
// are rewritten, so call it before ApplyToGND. It returns the number of
// cells written, or 0 when gat does not match the heightmap.
func (h *Heightmap) ApplyToGAT(gat *formats.GAT) int {
	if int(gat.Width) != 2*(h.Width-1) || int(gat.Height) != 2*(h.Depth-1) {
		return 0
	}
	written := 0
	for cy := 0; cy < int(gat.Height); cy++ {
		for cx := 0; cx < int(gat.Width); cx++ {
			if !h.tileChanged(cx/2, cy/2) {
				continue
			}
			cell := gat.GetCell(cx, cy)
			for c, off := range gatCorners {
				fx := float32(cx+off.dx) / 2
				fz := float32(cy+off.dz) / 2
				cell.Heights[c] = -h.localAt(fx, fz) * h.Scale.Y
			}
			written++
		}
	}
	return written
}

// tileChanged reports whether any corner vertex of tile (tx, tz) differs
// from the snapshot.
func (h *Heightmap) tileChanged(tx, tz int) bool {
	for dz := 0; dz <= 1; dz++ {
		for dx := 0; dx <= 1; dx++ {
			i := (tz+dz)*h.Width + tx + dx
			if h.Altitudes[i] != h.built[i] {
				return true
			}
		}
	}
	return false
}

package terrain

import (
	"image"
	"image/color"
	gomath "math"
)

// Image renders the heightmap as 16-bit grayscale with vertex row z=0 on top.
// The lowest vertex maps to black and the highest to white; lo and hi are
// the local heights of those two levels. A flat map is all black.
func (h *Heightmap) Image() (img *image.Gray16, lo, hi float32) {
	img = image.NewGray16(image.Rect(0, 0, h.Width, h.Depth))
	if len(h.Altitudes) == 0 {
		return img, 0, 0
	}

	lo, hi = h.Altitudes[0], h.Altitudes[0]
	for _, a := range h.Altitudes {
		lo = min(lo, a)
		hi = max(hi, a)
	}
	span := hi - lo
	for z := 0; z < h.Depth; z++ {
		for x := 0; x < h.Width; x++ {
			var v uint16
			if span > 0 {
				t := (h.Altitudes[z*h.Width+x] - lo) / span
				v = uint16(gomath.Round(float64(t) * gomath.MaxUint16))
			}
			img.SetGray16(x, z, color.Gray16{Y: v})
		}
	}
	return img, lo, hi
}

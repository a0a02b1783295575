package sculpt

import (
	gomath "math"

	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// Paint adds brush power to one channel of a tile's alpha maps, weighted by
// squared falloff. Secondary input erases.
type Paint struct {
	// Layer selects the alpha map (Layer/4) and channel (Layer%4).
	Layer int
}

// Name implements Tool.
func (*Paint) Name() string { return "paint" }

// Target implements Tool.
func (*Paint) Target() Target { return TargetAlpha }

// Accepts implements Tool.
func (*Paint) Accepts(in Input) bool {
	return in == InputPrimary || in == InputSecondary
}

// Apply implements Tool.
func (pt *Paint) Apply(g *Gesture, p Pass) error {
	power := p.Brush.Power
	if p.Input != InputPrimary {
		power = -power
	}
	for _, tile := range g.Tiles {
		buf, channel := tile.AlphaMap(pt.Layer)
		if buf == nil || tile.Terrain == nil {
			continue
		}
		if err := paintTile(g.Alpha, tile.Terrain, buf, channel, p, power); err != nil {
			return err
		}
	}
	return nil
}

// paintTile paints one buffer mapped over the grid of t.
func paintTile(s *AlphaEditSession, t Terrain, buf AlphaBuffer, channel int, p Pass, power float32) error {
	format := buf.Format()
	if _, err := channelOffsets(format); err != nil {
		return err
	}
	w, h := buf.Size()
	data := buf.Data()
	if w <= 0 || h <= 0 || len(data) < w*h*4 {
		return nil
	}

	lo, hi := t.GridBounds()
	spanX := float32(hi.X - lo.X)
	spanZ := float32(hi.Z - lo.Z)
	if spanX <= 0 || spanZ <= 0 {
		return nil
	}
	scale := t.LocalScale()
	local := worldToLocal(t, p.Contact)
	u := (local.X - float32(lo.X)) / spanX
	v := (local.Z - float32(lo.Z)) / spanZ

	// Brush radius in pixels along each axis.
	rx := p.Brush.Size / (spanX * scale.X) * float32(w)
	ry := p.Brush.Size / (spanZ * scale.Z) * float32(h)
	if rx <= 0 || ry <= 0 {
		return nil
	}
	cx, cy := u*float32(w), v*float32(h)
	x0 := clampInt(int(gomath.Floor(float64(cx-rx))), 0, w-1)
	x1 := clampInt(int(gomath.Ceil(float64(cx+rx))), 0, w-1)
	y0 := clampInt(int(gomath.Floor(float64(cy-ry))), 0, h-1)
	y1 := clampInt(int(gomath.Ceil(float64(cy+ry))), 0, h-1)
	if cx+rx < 0 || cy+ry < 0 || cx-rx > float32(w-1) || cy-ry > float32(h-1) {
		return nil
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float32(x) - cx) / rx * p.Brush.Size
			dz := (float32(y) - cy) / ry * p.Brush.Size
			if !p.Brush.Contains(dx, dz) {
				continue
			}
			idx := (y*w + x) * 4
			before, err := readPixel(data, format, idx)
			if err != nil {
				return err
			}
			after := before
			after[channel] += power * p.Brush.SquaredFalloff(dx, dz)
			for ch := range after {
				after[ch] = math.Clamp(after[ch], 0, 1)
			}
			s.Track(buf, idx, before)
			if err := writePixel(data, format, idx, after); err != nil {
				return err
			}
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package sculpt

import "fmt"

// channelOffsets maps RGBA channel indices to byte offsets within a pixel.
func channelOffsets(format PixelFormat) ([4]int, error) {
	switch format {
	case FormatRGBA8:
		return [4]int{0, 1, 2, 3}, nil
	case FormatABGR8:
		return [4]int{3, 2, 1, 0}, nil
	}
	return [4]int{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// readPixel decodes the pixel starting at byte idx.
func readPixel(data []byte, format PixelFormat, idx int) (Color, error) {
	off, err := channelOffsets(format)
	if err != nil {
		return Color{}, err
	}
	var c Color
	for ch := 0; ch < 4; ch++ {
		c[ch] = float32(data[idx+off[ch]]) / 255
	}
	return c, nil
}

// writePixel encodes c into the pixel starting at byte idx. Channels are
// clamped to [0, 1] and rounded to the nearest byte.
func writePixel(data []byte, format PixelFormat, idx int, c Color) error {
	off, err := channelOffsets(format)
	if err != nil {
		return err
	}
	for ch := 0; ch < 4; ch++ {
		v := c[ch]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		data[idx+off[ch]] = byte(v*255 + 0.5)
	}
	return nil
}

// AlphaEditSession records the first observed color of every pixel touched
// during one gesture, per buffer.
type AlphaEditSession struct {
	order    []AlphaBuffer
	original map[AlphaBuffer]map[int]Color
}

// NewAlphaEditSession returns an empty session.
func NewAlphaEditSession() *AlphaEditSession {
	return &AlphaEditSession{original: make(map[AlphaBuffer]map[int]Color)}
}

// Begin clears all tracked pixels.
func (s *AlphaEditSession) Begin(buffers ...AlphaBuffer) {
	s.order = s.order[:0]
	s.original = make(map[AlphaBuffer]map[int]Color, len(buffers))
	for _, b := range buffers {
		s.register(b)
	}
}

func (s *AlphaEditSession) register(b AlphaBuffer) map[int]Color {
	if m, ok := s.original[b]; ok {
		return m
	}
	m := make(map[int]Color)
	s.original[b] = m
	s.order = append(s.order, b)
	return m
}

// Track records c as the original color at byte index idx unless that pixel
// was already tracked.
func (s *AlphaEditSession) Track(b AlphaBuffer, idx int, c Color) {
	m := s.register(b)
	if _, seen := m[idx]; !seen {
		m[idx] = c
	}
}

// Baseline returns the color the pixel had when it was first tracked.
func (s *AlphaEditSession) Baseline(b AlphaBuffer, idx int) (Color, bool) {
	c, ok := s.original[b][idx]
	return c, ok
}

// Len returns the number of tracked pixels across all buffers.
func (s *AlphaEditSession) Len() int {
	n := 0
	for _, m := range s.original {
		n += len(m)
	}
	return n
}

// Commit reads the current color of every tracked pixel, bumps the change
// generation of every edited buffer, clears the session and returns the
// operation.
func (s *AlphaEditSession) Commit() (*AlphaOperation, error) {
	op := &AlphaOperation{}
	var firstErr error
	for _, b := range s.order {
		old := s.original[b]
		if len(old) == 0 {
			continue
		}
		data := b.Data()
		format := b.Format()
		next := make(map[int]Color, len(old))
		for idx := range old {
			c, err := readPixel(data, format, idx)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				break
			}
			next[idx] = c
		}
		if len(next) != len(old) {
			continue
		}
		b.IncrementChange()
		b.SetUpdateNeeded()
		op.Changes = append(op.Changes, AlphaChange{Buffer: b, Old: old, New: next})
	}
	s.Begin()
	return op, firstErr
}

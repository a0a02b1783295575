package texture

import (
	"fmt"
	"image"
	"os"

	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
)

var _ sculpt.AlphaBuffer = (*AlphaMap)(nil)

// AlphaMap is a 4-channel 8-bit texture whose channels hold the blend weights
// of four terrain layers.
type AlphaMap struct {
	pix    []byte
	width  int
	height int
	format sculpt.PixelFormat

	changes      int
	updateNeeded bool
}

// NewAlphaMap creates a zeroed alpha map.
func NewAlphaMap(width, height int, format sculpt.PixelFormat) *AlphaMap {
	return &AlphaMap{
		pix:    make([]byte, width*height*4),
		width:  width,
		height: height,
		format: format,
	}
}

// FromImage creates an RGBA8 alpha map from img. RGBA and NRGBA images are
// copied byte for byte.
func FromImage(img image.Image) *AlphaMap {
	b := img.Bounds()
	m := NewAlphaMap(b.Dx(), b.Dy(), sculpt.FormatRGBA8)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			r, g, bl, a := straightRGBA(img, b.Min.X+x, b.Min.Y+y)
			i := (y*m.width + x) * 4
			m.pix[i], m.pix[i+1], m.pix[i+2], m.pix[i+3] = r, g, bl, a
		}
	}
	return m
}

// ToImage returns a copy of the map as an NRGBA image.
func (m *AlphaMap) ToImage() (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	switch m.format {
	case sculpt.FormatRGBA8:
		copy(img.Pix, m.pix)
	case sculpt.FormatABGR8:
		for i := 0; i+3 < len(m.pix); i += 4 {
			img.Pix[i] = m.pix[i+3]
			img.Pix[i+1] = m.pix[i+2]
			img.Pix[i+2] = m.pix[i+1]
			img.Pix[i+3] = m.pix[i]
		}
	default:
		return nil, fmt.Errorf("alpha map: %w: %s", sculpt.ErrUnsupportedFormat, m.format)
	}
	return img, nil
}

// LoadTGA reads an alpha map from a TGA file.
func LoadTGA(path string) (*AlphaMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alpha map: %w", err)
	}
	img, err := DecodeTGA(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return FromImage(img), nil
}

// SaveTGA writes the map to path as a 32-bit TGA.
func (m *AlphaMap) SaveTGA(path string) error {
	img, err := m.ToImage()
	if err != nil {
		return err
	}
	data, err := EncodeTGA(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing alpha map: %w", err)
	}
	return nil
}

// Data returns the pixel bytes.
func (m *AlphaMap) Data() []byte { return m.pix }

// Size returns the map dimensions in pixels.
func (m *AlphaMap) Size() (int, int) { return m.width, m.height }

// Format returns the byte layout of Data.
func (m *AlphaMap) Format() sculpt.PixelFormat { return m.format }

// IncrementChange bumps the change generation.
func (m *AlphaMap) IncrementChange() { m.changes++ }

// DecrementChanges reverts one change generation.
func (m *AlphaMap) DecrementChanges() { m.changes-- }

// Changes returns the change generation.
func (m *AlphaMap) Changes() int { return m.changes }

// SetUpdateNeeded flags the map for re-upload.
func (m *AlphaMap) SetUpdateNeeded() { m.updateNeeded = true }

// UpdateNeeded reports whether the map changed since the last ClearUpdate.
func (m *AlphaMap) UpdateNeeded() bool { return m.updateNeeded }

// ClearUpdate resets the update flag after the map was consumed.
func (m *AlphaMap) ClearUpdate() { m.updateNeeded = false }

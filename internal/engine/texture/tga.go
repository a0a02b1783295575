// Package texture provides the paintable alpha maps of a terrain and their
// TGA encoding.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) TGA files.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	// TGA header
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	// colorMapSpec: bytes 3-7 (skip for now)
	// imageSpec: bytes 8-17
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	// Check supported formats
	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != 2 && imageType != 10 {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	// Skip ID field
	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixelData := data[offset:]

	// Create image
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bytesPerPixel := bpp / 8

	// Check if image is flipped (bit 5 of descriptor = top-to-bottom)
	topToBottom := (descriptor & 0x20) != 0

	if imageType == 2 {
		// Uncompressed
		expectedSize := width * height * bytesPerPixel
		if len(pixelData) < expectedSize {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}

		for y := 0; y < height; y++ {
			destY := y
			if !topToBottom {
				destY = height - 1 - y
			}
			for x := 0; x < width; x++ {
				i := (y*width + x) * bytesPerPixel
				b := pixelData[i]
				g := pixelData[i+1]
				r := pixelData[i+2]
				a := uint8(255)
				if bytesPerPixel == 4 {
					a = pixelData[i+3]
				}
				img.SetRGBA(x, destY, color.RGBA{R: r, G: g, B: b, A: a})
			}
		}
	} else {
		// RLE compressed (type 10)
		if err := decodeTGARLE(img, pixelData, width, height, bytesPerPixel, topToBottom); err != nil {
			return nil, err
		}
	}

	return img, nil
}

// decodeTGARLE decodes RLE-compressed TGA pixel data into an image.
func decodeTGARLE(img *image.RGBA, pixelData []byte, width, height, bytesPerPixel int, topToBottom bool) error {
	pixelCount := width * height
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			b := pixelData[dataIdx]
			g := pixelData[dataIdx+1]
			r := pixelData[dataIdx+2]
			a := uint8(255)
			if bytesPerPixel == 4 {
				a = pixelData[dataIdx+3]
			}
			dataIdx += bytesPerPixel

			c := color.RGBA{R: r, G: g, B: b, A: a}
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				x := pixelIdx % width
				y := pixelIdx / width
				destY := y
				if !topToBottom {
					destY = height - 1 - y
				}
				img.SetRGBA(x, destY, c)
				pixelIdx++
			}
		} else {
			// Raw packet - read count pixels
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				if dataIdx+bytesPerPixel > len(pixelData) {
					break
				}
				b := pixelData[dataIdx]
				g := pixelData[dataIdx+1]
				r := pixelData[dataIdx+2]
				a := uint8(255)
				if bytesPerPixel == 4 {
					a = pixelData[dataIdx+3]
				}
				dataIdx += bytesPerPixel

				x := pixelIdx % width
				y := pixelIdx / width
				destY := y
				if !topToBottom {
					destY = height - 1 - y
				}
				img.SetRGBA(x, destY, color.RGBA{R: r, G: g, B: b, A: a})
				pixelIdx++
			}
		}
	}

	return nil
}

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// EncodeTGA encodes img as an uncompressed 32-bit top-to-bottom TGA.
func EncodeTGA(img image.Image) ([]byte, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return nil, fmt.Errorf("TGA size %dx%d out of range", width, height)
	}

	var buf bytes.Buffer
	buf.Grow(18 + width*height*4)
	header := [18]byte{}
	header[2] = TGATypeUncompressed
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 32
	header[17] = 0x20 | 8 // top-to-bottom, 8 alpha bits
	buf.Write(header[:])

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := straightRGBA(img, x, y)
			buf.Write([]byte{bl, g, r, a})
		}
	}
	return buf.Bytes(), nil
}

// straightRGBA returns the stored channels of a pixel. RGBA and NRGBA images
// are read as stored so DecodeTGA output encodes back unchanged.
func straightRGBA(img image.Image, x, y int) (r, g, b, a uint8) {
	switch m := img.(type) {
	case *image.RGBA:
		i := m.PixOffset(x, y)
		return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
	case *image.NRGBA:
		i := m.PixOffset(x, y)
		return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B, c.A
}

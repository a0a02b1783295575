package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/internal/logger"
)

// cmdExport writes a map's vertex heights as a 16-bit grayscale TIFF.
func cmdExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	grfPath := fs.String("grf", "", "Read the map from a GRF archive")
	out := fs.String("o", "", "Output image (default: <map>.tiff)")
	size := fs.Int("size", 0, "Resample to size x size pixels")
	if err := fs.Parse(reorder(args)); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainedit export <map.gnd> [-o heights.tiff] [-size n]")
	}
	name := fs.Arg(0)
	if *size < 0 {
		return fmt.Errorf("invalid size %d", *size)
	}

	src, err := openSource(*grfPath)
	if err != nil {
		return err
	}
	defer src.Close()

	gnd, err := src.ground(name)
	if err != nil {
		return err
	}
	h := terrain.BuildHeightmap(gnd, cfg.Terrain.HeightScale, cfg.Terrain.Centered)
	img, lo, hi := h.Image()

	var final image.Image = img
	if *size > 0 {
		dst := image.NewGray16(image.Rect(0, 0, *size, *size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		final = dst
	}

	path := *out
	if path == "" {
		base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
		path = strings.TrimSuffix(base, filepath.Ext(base)) + ".tiff"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := tiff.Encode(f, final, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return fmt.Errorf("encoding image: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	b := final.Bounds()
	logger.Named("terrainedit").Info("heights exported",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	fmt.Fprintf(stdout, "Image:     %s (%dx%d)\n", path, b.Dx(), b.Dy())
	fmt.Fprintf(stdout, "Heights:   %.2f .. %.2f\n", lo, hi)
	return nil
}

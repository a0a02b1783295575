package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/assets"
	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/engine/terrain"
	"github.com/Faultbox/midgard-sculpt/internal/engine/texture"
	"github.com/Faultbox/midgard-sculpt/internal/history"
	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/internal/replay"
	"github.com/Faultbox/midgard-sculpt/internal/scene"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/formats"
	"github.com/Faultbox/midgard-sculpt/pkg/grf"
)

var stdout io.Writer = os.Stdout

// source loads map files from disk, or from layered GRF archives when any
// are given.
type source struct {
	assets *assets.Manager
}

// openSource opens a comma-separated list of archives, lowest priority first.
func openSource(grfPaths string) (*source, error) {
	if grfPaths == "" {
		return &source{}, nil
	}
	m := assets.NewManager()
	for _, p := range strings.Split(grfPaths, ",") {
		if err := m.AddArchive(strings.TrimSpace(p)); err != nil {
			m.Close()
			return nil, err
		}
	}
	return &source{assets: m}, nil
}

func (s *source) Close() error {
	if s.assets != nil {
		return s.assets.Close()
	}
	return nil
}

func (s *source) ground(name string) (*formats.GND, error) {
	if s.assets == nil {
		return formats.ParseGNDFile(name)
	}
	return s.assets.Ground(name)
}

func (s *source) altitude(name string) (*formats.GAT, error) {
	if s.assets == nil {
		return formats.ParseGATFile(name)
	}
	return s.assets.Altitude(name)
}

func cmdMaps(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: terrainedit maps <archive.grf>[,<patch.grf>...]")
	}
	src, err := openSource(strings.Join(args, ","))
	if err != nil {
		return err
	}
	defer src.Close()

	names := src.assets.Maps()
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	fmt.Fprintf(stdout, "\n%d maps in %d archives\n", len(names), src.assets.Len())
	return nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	grfPath := fs.String("grf", "", "Read the map from a GRF archive")
	if err := fs.Parse(reorder(args)); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainedit info <map.gnd>")
	}
	name := fs.Arg(0)

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
	lo, hi := h.GridBounds()
	minAlt, maxAlt := gnd.GetAltitudeRange()

	fmt.Fprintf(stdout, "Ground:    %s\n", name)
	fmt.Fprintf(stdout, "Version:   %s\n", gnd.Version)
	fmt.Fprintf(stdout, "Tiles:     %dx%d\n", gnd.Width, gnd.Height)
	fmt.Fprintf(stdout, "Zoom:      %.2f\n", gnd.Zoom)
	fmt.Fprintf(stdout, "Textures:  %d\n", len(gnd.Textures))
	fmt.Fprintf(stdout, "Altitude:  %.2f .. %.2f\n", minAlt, maxAlt)
	fmt.Fprintf(stdout, "Cells:     (%d,%d) .. (%d,%d)\n", lo.X, lo.Z, hi.X, hi.Z)
	fmt.Fprintf(stdout, "Bounds:    %v .. %v\n", h.Bounds.Min, h.Bounds.Max)

	if *grfPath != "" {
		if gat, err := src.altitude(name); err == nil {
			walkable := 0
			for t, n := range gat.CountByType() {
				if t.IsWalkable() {
					walkable += n
				}
			}
			fmt.Fprintf(stdout, "GAT:       %dx%d, %d walkable\n", gat.Width, gat.Height, walkable)
		}
	}
	return nil
}

// mapFlags are the options shared by commands that edit and save a map.
type mapFlags struct {
	grfPath   *string
	out       *string
	gatIn     *string
	gatOut    *string
	alphaIn   *string
	alphaOut  *string
	alphaSize *int
	pack      *string
}

func addMapFlags(fs *flag.FlagSet) *mapFlags {
	return &mapFlags{
		grfPath:   fs.String("grf", "", "Read the map from a GRF archive"),
		out:       fs.String("o", "", "Output ground file"),
		gatIn:     fs.String("gat", "", "Altitude table to keep in sync"),
		gatOut:    fs.String("gat-out", "", "Output altitude table"),
		alphaIn:   fs.String("alpha", "", "Alpha map to paint into"),
		alphaOut:  fs.String("alpha-out", "", "Output alpha map"),
		alphaSize: fs.Int("alpha-size", 0, "Size of a blank alpha map"),
		pack:      fs.String("pack", "", "Also pack the saved files into a patch GRF"),
	}
}

// session is one loaded map with the files it is saved to.
type session struct {
	gnd   *formats.GND
	gat   *formats.GAT
	h     *terrain.Heightmap
	alpha *texture.AlphaMap

	out, gatOut, alphaOut, pack string
	log                         *zap.Logger
}

func openSession(cfg *config.Config, name string, f *mapFlags) (*session, error) {
	src, err := openSource(*f.grfPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	s := &session{
		out:      *f.out,
		gatOut:   *f.gatOut,
		alphaOut: *f.alphaOut,
		pack:     *f.pack,
		log:      logger.Named("terrainedit"),
	}
	if s.out == "" {
		s.out = name
		if src.assets != nil {
			s.out = path.Base(strings.ReplaceAll(assets.MapPath(name, ".gnd"), "\\", "/"))
		}
	}
	if s.gatOut == "" {
		s.gatOut = *f.gatIn
	}
	if s.alphaOut == "" {
		s.alphaOut = *f.alphaIn
	}

	if s.gnd, err = src.ground(name); err != nil {
		return nil, err
	}
	switch {
	case *f.gatIn != "":
		if s.gat, err = formats.ParseGATFile(*f.gatIn); err != nil {
			return nil, err
		}
	case s.gatOut != "" && src.assets != nil:
		if s.gat, err = src.altitude(name); err != nil {
			return nil, err
		}
	}
	switch {
	case *f.alphaIn != "":
		if s.alpha, err = texture.LoadTGA(*f.alphaIn); err != nil {
			return nil, err
		}
	case *f.alphaSize > 0:
		s.alpha = texture.NewAlphaMap(*f.alphaSize, *f.alphaSize, sculpt.FormatRGBA8)
	}

	s.h = terrain.BuildHeightmap(s.gnd, cfg.Terrain.HeightScale, cfg.Terrain.Centered)
	return s, nil
}

// tile returns the map as a sculpting tile.
func (s *session) tile() sculpt.Tile {
	t := sculpt.Tile{Terrain: s.h}
	if s.alpha != nil {
		t.AlphaMaps = []sculpt.AlphaBuffer{s.alpha}
	}
	return t
}

// save writes edits back to the ground, altitude and alpha files and
// returns the number of ground vertices written.
func (s *session) save() (int, error) {
	if s.gat != nil {
		cells := s.h.ApplyToGAT(s.gat)
		if err := formats.WriteGATFile(s.gatOut, s.gat); err != nil {
			return 0, err
		}
		s.log.Info("altitude table saved", zap.String("path", s.gatOut), zap.Int("cells", cells))
	}

	written := s.h.ApplyToGND(s.gnd)
	if err := formats.WriteGNDFile(s.out, s.gnd); err != nil {
		return 0, err
	}
	s.log.Info("ground saved", zap.String("path", s.out), zap.Int("vertices", written))

	if s.alpha != nil {
		if s.alphaOut == "" {
			s.log.Warn("alpha map painted but no output path given")
		} else {
			if err := s.alpha.SaveTGA(s.alphaOut); err != nil {
				return 0, err
			}
			s.log.Info("alpha map saved", zap.String("path", s.alphaOut), zap.Int("changes", s.alpha.Changes()))
		}
	}
	if s.pack != "" {
		if err := s.writePatch(); err != nil {
			return 0, err
		}
	}
	return written, nil
}

// writePatch packs the saved ground and altitude files under data/ so the
// archive can be layered over the original client data.
func (s *session) writePatch() error {
	saved := []string{s.out}
	if s.gat != nil {
		saved = append(saved, s.gatOut)
	}
	files := make([]grf.File, 0, len(saved))
	for _, p := range saved {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, grf.File{Name: "data/" + filepath.Base(p), Data: data})
	}

	f, err := os.Create(s.pack)
	if err != nil {
		return fmt.Errorf("creating patch: %w", err)
	}
	if err := grf.Write(f, files); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.log.Info("patch written", zap.String("path", s.pack), zap.Int("files", len(files)))
	return nil
}

func cmdApply(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	mf := addMapFlags(fs)
	if err := fs.Parse(reorder(args)); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: terrainedit apply <map.gnd> <strokes.yaml> [options]")
	}

	script, err := replay.LoadScript(fs.Arg(1))
	if err != nil {
		return err
	}
	s, err := openSession(cfg, fs.Arg(0), mf)
	if err != nil {
		return err
	}

	hist := history.New(cfg.History.MaxDepth)
	ctrl := sculpt.NewToolController(hist)
	ctrl.Bind(s.tile())
	player := replay.NewPlayer(cfg, ctrl, hist, scene.NewQueue())

	res, err := player.Play(script)
	if err != nil {
		return err
	}
	written, err := s.save()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Strokes:   %d (undone %d, redone %d)\n", res.Strokes, res.Undone, res.Redone)
	fmt.Fprintf(stdout, "History:   %d operations\n", res.Depth)
	fmt.Fprintf(stdout, "Vertices:  %d written to %s\n", written, s.out)
	return nil
}

// reorder moves flags ahead of positional arguments so options may follow
// the file names.
func reorder(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if len(a) > 1 && a[0] == '-' {
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
			continue
		}
		positional = append(positional, a)
	}
	return append(flags, positional...)
}

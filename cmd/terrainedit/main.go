// terrainedit is a headless terrain sculpting and alpha-map painting tool
// for Ragnarok Online ground files.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/logger"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	switch command {
	case "info":
		err = cmdInfo(cfg, args[1:])
	case "apply":
		err = cmdApply(cfg, args[1:])
	case "edit":
		err = cmdEdit(cfg, args[1:])
	case "maps":
		err = cmdMaps(args[1:])
	case "export":
		err = cmdExport(cfg, args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainedit - terrain sculpting and alpha-map painting

Usage:
  terrainedit [flags] <command> [options]

Commands:
  info <map.gnd>                    Show ground size, zoom and height range
  apply <map.gnd> <strokes.yaml>    Play a stroke script and save the result
  edit <map.gnd>                    Sculpt interactively and save on exit
  maps <archive.grf>[,<patch.grf>]  List the ground files in archives
  export <map.gnd>                  Write vertex heights as a 16-bit TIFF

Map options (apply and edit):
  -grf <a.grf,b.grf>   Read the map by name from archives, later ones first
                       (also for info and export)
  -o <out.gnd>         Output ground file (default: overwrite input)
  -gat <in.gat>        Altitude table to resample after editing
  -gat-out <out.gat>   Output altitude table (default: overwrite -gat)
  -alpha <in.tga>      Alpha map to paint into
  -alpha-out <out.tga> Output alpha map (default: overwrite -alpha)
  -alpha-size <n>      Create a blank n x n alpha map when -alpha is not set
  -pack <patch.grf>    Also pack the saved ground and altitude files
  -width, -height      Window size for edit (default 1280x720)

Export options:
  -o <heights.tiff>    Output image (default: <map>.tiff)
  -size <n>            Resample to n x n pixels

Edit controls:
  left / right drag    Paint with the primary / secondary input
  ctrl + right drag    Secondary with modifier (places level and slope markers)
  middle drag, wheel   Orbit and zoom the camera; W A S D pan
  1-5                  raise_lower, level, smooth, slope, paint
  [ ]  B  Q E          Brush size, shape, rotation
  ctrl+Z, ctrl+Y       Undo, redo

Flags:
  -config, -debug, -tool, -brush-size, -brush-power, -precision, -layer

Examples:
  terrainedit info prontera.gnd
  terrainedit maps data.grf,patch.grf
  terrainedit export -grf data.grf prontera -size 512
  terrainedit apply -grf data.grf prontera raise.yaml -gat-out prontera.gat -pack patch.grf
  terrainedit -tool level -precision apply prontera.gnd flatten.yaml -o out.gnd
  terrainedit apply prontera.gnd paint.yaml -alpha-size 256 -alpha-out blend.tga`)
}

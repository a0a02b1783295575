package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/editor"
	"github.com/Faultbox/midgard-sculpt/internal/engine/input"
	"github.com/Faultbox/midgard-sculpt/internal/engine/window"
)

const frameTime = 16 * time.Millisecond

// titledInput refreshes the window title with the editor status every frame.
type titledInput struct {
	*input.Input
	win *window.Window
	ed  *editor.Editor
}

func (t titledInput) Update() bool {
	t.win.SetTitle("terrainedit | " + t.ed.Status())
	return t.Input.Update()
}

func cmdEdit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	mf := addMapFlags(fs)
	width := fs.Int("width", 1280, "Window width")
	height := fs.Int("height", 720, "Window height")
	if err := fs.Parse(reorder(args)); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terrainedit edit <map.gnd> [options]")
	}

	s, err := openSession(cfg, fs.Arg(0), mf)
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{Title: "terrainedit", Width: *width, Height: *height})
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.GetSize()
	ed, err := editor.New(cfg, w, h, s.tile())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := titledInput{Input: input.New(), win: win, ed: ed}
	if err := ed.Run(ctx, src, frameTime); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	written, err := s.save()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "History:   %d operations\n", ed.History().Depth())
	fmt.Fprintf(stdout, "Vertices:  %d written to %s\n", written, s.out)
	return nil
}

// Package window opens the SDL2 window that receives editor input.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/logger"
)

func init() {
	// SDL event polling must happen on the main thread.
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// Window wraps an SDL2 window.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	title     string
	log       *zap.Logger
}

// New initializes SDL video and events and creates the window.
func New(cfg Config) (*Window, error) {
	w := &Window{config: cfg, title: cfg.Title, log: logger.Named("window")}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen))
	return w, nil
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() {
	w.log.Info("closing window")
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title. Unchanged titles are not resent.
func (w *Window) SetTitle(title string) {
	if title == w.title {
		return
	}
	w.title = title
	w.sdlWindow.SetTitle(title)
}

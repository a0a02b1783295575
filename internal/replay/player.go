package replay

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/config"
	"github.com/Faultbox/midgard-sculpt/internal/history"
	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/internal/scene"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

var toolNames = map[string]struct{}{
	"raise_lower": {},
	"level":       {},
	"smooth":      {},
	"slope":       {},
	"paint":       {},
}

// replayFrame is the frame time reported to UpdatePainting.
const replayFrame = float32(1.0 / 60)

// Result summarizes a played script.
type Result struct {
	Strokes int
	Undone  int
	Redone  int
	Depth   int
}

// Player feeds scripted gestures into a controller through the scene queue.
type Player struct {
	cfg   *config.Config
	ctrl  *sculpt.ToolController
	hist  *history.Stack
	queue *scene.Queue
	log   *zap.Logger
}

// NewPlayer creates a player. The controller should push its operations to
// hist.
func NewPlayer(cfg *config.Config, ctrl *sculpt.ToolController, hist *history.Stack, queue *scene.Queue) *Player {
	return &Player{
		cfg:   cfg,
		ctrl:  ctrl,
		hist:  hist,
		queue: queue,
		log:   logger.Named("replay"),
	}
}

// Play runs every stroke, then the undo and redo steps. Each stroke is
// drained from the queue before the next one is configured.
func (p *Player) Play(s *Script) (Result, error) {
	var res Result
	for i, st := range s.Strokes {
		if err := p.playStroke(st); err != nil {
			return res, fmt.Errorf("stroke %d: %w", i, err)
		}
		res.Strokes++
	}

	for n := 0; n < s.Undo; n++ {
		if err := p.hist.Undo(); err != nil {
			if errors.Is(err, history.ErrNothingToUndo) {
				p.log.Warn("undo requested with empty history")
				break
			}
			return res, err
		}
		res.Undone++
	}
	for n := 0; n < s.Redo; n++ {
		if err := p.hist.Redo(); err != nil {
			if errors.Is(err, history.ErrNothingToRedo) {
				p.log.Warn("redo requested with nothing undone")
				break
			}
			return res, err
		}
		res.Redone++
	}
	res.Depth = p.hist.Depth()
	return res, nil
}

func (p *Player) playStroke(st Stroke) error {
	tool, err := p.toolFor(st)
	if err != nil {
		return err
	}
	in := sculpt.InputPrimary
	if st.Input != "" {
		if in, err = sculpt.ParseInput(st.Input); err != nil {
			return err
		}
	}

	size, power := p.cfg.Brush.Size, p.cfg.Brush.Power
	if st.Size != nil {
		size = *st.Size
	}
	if st.Power != nil {
		power = *st.Power
	}
	shapeName := p.cfg.Brush.Shape
	if st.Shape != "" {
		shapeName = st.Shape
	}
	shape, ok := sculpt.ShapeByName(shapeName)
	if !ok {
		return fmt.Errorf("unknown shape %q", shapeName)
	}
	rot := math.QuatFromAxisAngle(math.Vec3{Y: 1}, st.Yaw*gomath.Pi/180)

	var errs []error
	record := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	p.queue.Enqueue(func() {
		p.ctrl.SetTool(tool)
		p.ctrl.SetBrush(size, power)
		p.ctrl.SetShape(shape)
	})
	first, last := st.Points[0].Vec3(), st.Points[len(st.Points)-1].Vec3()
	p.queue.Enqueue(func() { record(p.ctrl.StartPainting(in, rot, first)) })
	if len(st.Points) > 2 {
		for _, pt := range st.Points[1 : len(st.Points)-1] {
			contact := pt.Vec3()
			p.queue.Enqueue(func() { record(p.ctrl.UpdatePainting(rot, contact, replayFrame)) })
		}
	}
	p.queue.Enqueue(func() { record(p.ctrl.FinishPainting(rot, last)) })
	p.queue.Drain()

	p.log.Debug("stroke played",
		zap.String("tool", tool.Name()),
		zap.Stringer("input", in),
		zap.Int("points", len(st.Points)))
	return errors.Join(errs...)
}

// ToolFromConfig builds the named tool with the configuration defaults. An
// empty name selects the configured tool.
func ToolFromConfig(cfg *config.Config, name string) (sculpt.Tool, error) {
	if name == "" {
		name = cfg.Sculpt.Tool
	}
	switch name {
	case "raise_lower":
		return &sculpt.RaiseLower{}, nil
	case "smooth":
		return &sculpt.Smooth{}, nil
	case "level":
		return &sculpt.Level{
			Level:     cfg.Sculpt.Level,
			UseMarker: cfg.Sculpt.UseMarker,
			Precision: cfg.Sculpt.Precision,
		}, nil
	case "slope":
		return &sculpt.Slope{Precision: cfg.Sculpt.Precision, Lock: cfg.Sculpt.Lock}, nil
	case "paint":
		return &sculpt.Paint{Layer: cfg.Paint.Layer}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", name)
}

// toolFor builds the tool of a stroke, applying its overrides over the
// configuration defaults.
func (p *Player) toolFor(st Stroke) (sculpt.Tool, error) {
	tool, err := ToolFromConfig(p.cfg, st.Tool)
	if err != nil {
		return nil, err
	}

	switch t := tool.(type) {
	case *sculpt.Level:
		if st.Precision != nil {
			t.Precision = *st.Precision
		}
		if st.Level != nil {
			t.Level = *st.Level
		}
		if st.UseMarker != nil {
			t.UseMarker = *st.UseMarker
		}
		if st.Marker != nil {
			t.Marker = st.Marker.Vec3()
		}
	case *sculpt.Slope:
		if st.Precision != nil {
			t.Precision = *st.Precision
		}
		if st.Lock != nil {
			t.Lock = *st.Lock
		}
		if st.Base != nil {
			t.Base = st.Base.Vec3()
		}
		if st.Peak != nil {
			t.Peak = st.Peak.Vec3()
		}
	case *sculpt.Paint:
		if st.Layer != nil {
			t.Layer = *st.Layer
		}
	}
	return tool, nil
}

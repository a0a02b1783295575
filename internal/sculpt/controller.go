package sculpt

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/pkg/math"
)

// activeGesture is the Active state of the controller.
type activeGesture struct {
	tool    Tool
	gesture *Gesture
}

// ToolController routes painting calls to the active tool and commits one
// operation per gesture. It is Idle when active is nil.
type ToolController struct {
	consumer Consumer
	tool     Tool
	brush    Footprint
	tiles    []Tile

	heights *HeightEditSession
	alpha   *AlphaEditSession
	active  *activeGesture

	log *zap.Logger
}

// NewToolController returns an idle controller that pushes committed
// operations to consumer. consumer may be nil.
func NewToolController(consumer Consumer) *ToolController {
	return &ToolController{
		consumer: consumer,
		brush:    NewFootprint(5, 1),
		heights:  NewHeightEditSession(),
		alpha:    NewAlphaEditSession(),
		log:      logger.Named("sculpt"),
	}
}

// SetTool selects the tool for the next gesture. A gesture in progress keeps
// its tool.
func (c *ToolController) SetTool(t Tool) {
	c.tool = t
}

// Tool returns the selected tool.
func (c *ToolController) Tool() Tool {
	return c.tool
}

// SetBrush sets the brush size and power used by subsequent passes.
func (c *ToolController) SetBrush(size, power float32) {
	c.brush.Size = size
	c.brush.Power = power
}

// SetShape sets the brush shape used by subsequent passes.
func (c *ToolController) SetShape(s Shape) {
	c.brush.Shape = s
}

// Brush returns the current brush.
func (c *ToolController) Brush() Footprint {
	return c.brush
}

// Bind sets the tiles edited by subsequent gestures.
func (c *ToolController) Bind(tiles ...Tile) {
	c.tiles = append(c.tiles[:0:0], tiles...)
}

// Unbind removes all tiles. A gesture in progress keeps its tiles.
func (c *ToolController) Unbind() {
	c.tiles = nil
}

// Painting reports whether a gesture is active.
func (c *ToolController) Painting() bool {
	return c.active != nil
}

// StartPainting begins a gesture and runs its first pass. Without a tool or
// bound tiles, or while a gesture is already active, it does nothing.
func (c *ToolController) StartPainting(in Input, rot math.Quat, contact math.Vec3) error {
	if c.active != nil || c.tool == nil || len(c.tiles) == 0 {
		return nil
	}
	if placer, ok := c.tool.(MarkerPlacer); ok && placer.PlaceMarker(in, contact) {
		c.log.Debug("marker placed", zap.String("tool", c.tool.Name()), zap.Stringer("input", in))
		return nil
	}
	if !c.tool.Accepts(in) {
		return nil
	}

	g := &Gesture{
		Input:   in,
		Tiles:   c.tiles,
		Heights: c.heights,
		Alpha:   c.alpha,
	}
	terrains := make([]Terrain, 0, len(c.tiles))
	for _, t := range c.tiles {
		if t.Terrain != nil {
			terrains = append(terrains, t.Terrain)
		}
	}
	c.heights.Begin(terrains...)
	c.alpha.Begin()
	c.active = &activeGesture{tool: c.tool, gesture: g}
	c.log.Debug("gesture started", zap.String("tool", c.tool.Name()), zap.Stringer("input", in))

	if err := c.pass(rot, contact); err != nil {
		return errors.Join(err, c.commit())
	}
	return nil
}

// UpdatePainting runs another pass of the active gesture. deltaTime is
// accepted for frame-driven callers and does not scale the edit.
func (c *ToolController) UpdatePainting(rot math.Quat, contact math.Vec3, deltaTime float32) error {
	if c.active == nil {
		return nil
	}
	if err := c.pass(rot, contact); err != nil {
		return errors.Join(err, c.commit())
	}
	return nil
}

// FinishPainting runs a final pass and commits the gesture.
func (c *ToolController) FinishPainting(rot math.Quat, contact math.Vec3) error {
	if c.active == nil {
		return nil
	}
	err := c.pass(rot, contact)
	return errors.Join(err, c.commit())
}

func (c *ToolController) pass(rot math.Quat, contact math.Vec3) error {
	a := c.active
	p := Pass{
		Input:    a.gesture.Input,
		Rotation: rot,
		Contact:  contact,
		Brush:    c.brush.Oriented(rot),
	}
	err := a.tool.Apply(a.gesture, p)
	if err != nil {
		c.log.Warn("paint pass failed", zap.String("tool", a.tool.Name()), zap.Error(err))
	}
	return err
}

// commit ends the active gesture and hands its operation to the consumer.
// The controller is Idle afterwards even when an error is returned.
func (c *ToolController) commit() error {
	a := c.active
	c.active = nil

	var (
		op  Operation
		err error
	)
	switch a.tool.Target() {
	case TargetAlpha:
		op, err = c.alpha.Commit()
		c.heights.Begin()
	default:
		op = c.heights.Commit()
		c.alpha.Begin()
	}
	c.log.Debug("gesture committed",
		zap.String("tool", a.tool.Name()),
		zap.String("property", op.Name()),
		zap.Int("cells", op.Len()))
	if c.consumer != nil {
		c.consumer.Push(op)
	}
	return err
}

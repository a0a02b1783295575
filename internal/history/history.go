// Package history keeps committed sculpt operations for undo and redo.
package history

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-sculpt/internal/logger"
	"github.com/Faultbox/midgard-sculpt/internal/sculpt"
)

// DefaultMaxDepth is the number of operations kept when none is configured.
const DefaultMaxDepth = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Stack is a bounded undo/redo history. It implements sculpt.Consumer and
// must be used from the scene goroutine.
type Stack struct {
	maxDepth int
	undo     []sculpt.Operation
	redo     []sculpt.Operation
	log      *zap.Logger
}

var _ sculpt.Consumer = (*Stack)(nil)

// New creates a stack that keeps at most maxDepth operations.
func New(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{
		maxDepth: maxDepth,
		log:      logger.Named("history"),
	}
}

// Push records op as the latest edit and clears the redo list. Empty
// operations are discarded.
func (s *Stack) Push(op sculpt.Operation) {
	if op == nil || op.Len() == 0 {
		s.log.Debug("discarded empty operation")
		return
	}
	if len(s.undo) >= s.maxDepth {
		s.undo = s.undo[1:]
	}
	s.undo = append(s.undo, op)
	s.redo = s.redo[:0]
	s.log.Debug("operation recorded",
		zap.String("property", op.Name()),
		zap.Int("cells", op.Len()),
		zap.Int("depth", len(s.undo)))
}

// Undo reverts the latest operation. An operation that fails to revert
// stays on the undo stack.
func (s *Stack) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	op := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	if err := op.Undo(); err != nil {
		s.undo = append(s.undo, op)
		return fmt.Errorf("undo %s: %w", op.Name(), err)
	}
	s.redo = append(s.redo, op)
	s.log.Info("undo", zap.String("property", op.Name()), zap.Int("cells", op.Len()))
	return nil
}

// Redo reapplies the latest undone operation. An operation that fails to
// reapply stays on the redo stack.
func (s *Stack) Redo() error {
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	op := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	if err := op.Redo(); err != nil {
		s.redo = append(s.redo, op)
		return fmt.Errorf("redo %s: %w", op.Name(), err)
	}
	s.undo = append(s.undo, op)
	s.log.Info("redo", zap.String("property", op.Name()), zap.Int("cells", op.Len()))
	return nil
}

// CanUndo reports whether Undo has an operation to revert.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo has an operation to reapply.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Depth returns the number of undoable operations.
func (s *Stack) Depth() int { return len(s.undo) }

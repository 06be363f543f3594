package command

import (
	"log"

	"github.com/example/snipmark/internal/scene"
)

// DefaultCapacity bounds how many commands the undo stack retains.
const DefaultCapacity = 100

// History applies commands to a scene and records them for undo and
// redo. A new command discards any pending redo entries. When the undo
// stack exceeds its capacity the oldest entry is evicted and can no
// longer be undone.
type History struct {
	capacity int
	undo     []Command
	redo     []Command
}

// NewHistory returns a history bounded to cap entries. A cap of zero
// or less uses DefaultCapacity.
func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = DefaultCapacity
	}
	return &History{capacity: cap}
}

// Push applies cmd to s and records it. If the command fails it is
// dropped and the scene is left untouched.
func (h *History) Push(s *scene.Scene, cmd Command) error {
	if err := cmd.Apply(s); err != nil {
		log.Printf("command %s rejected: %v", cmd.Name(), err)
		return err
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.capacity {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
	return nil
}

// Undo reverts the most recent command. It reports whether anything
// was undone.
func (h *History) Undo(s *scene.Scene) bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Revert(s)
	h.redo = append(h.redo, cmd)
	return true
}

// Redo reapplies the most recently undone command.
func (h *History) Redo(s *scene.Scene) bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := cmd.Apply(s); err != nil {
		log.Printf("redo %s failed: %v", cmd.Name(), err)
		return false
	}
	h.undo = append(h.undo, cmd)
	return true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear empties both stacks, for example after loading a document.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

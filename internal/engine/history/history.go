// Package history provides undo and redo over buffer edits.
//
// Every edit is recorded as a single replace operation carrying the old
// and new text plus the cursor on both sides, so undoing restores exactly
// what the user saw. Consecutive typed characters coalesce into one
// operation; one undo removes one typed word-burst, not one keystroke.
package history

import (
	"strings"

	"github.com/empty-buffer/rusty-ai/internal/engine/buffer"
	"github.com/empty-buffer/rusty-ai/internal/engine/cursor"
)

// DefaultLimit bounds the undo stack depth.
const DefaultLimit = 1000

// Op is one reversible edit: the text at [Start, Start+len(OldText))
// was replaced by NewText. Offsets and lengths are in characters.
type Op struct {
	Start   int
	OldText string
	NewText string
	Before  cursor.Position
	After   cursor.Position
}

func (o Op) isInsert() bool {
	return o.OldText == "" && o.NewText != ""
}

// newLen returns the char length of the text currently in the buffer.
func (o Op) newLen() int {
	return len([]rune(o.NewText))
}

func (o Op) oldLen() int {
	return len([]rune(o.OldText))
}

// Stack holds the undo and redo histories.
type Stack struct {
	undo  []Op
	redo  []Op
	limit int
}

// NewStack creates a stack. Limits below 1 use DefaultLimit.
func NewStack(limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records an edit that was just applied and clears the redo
// history. Single-character inserts that continue the previous insert
// merge into it, so a typed run undoes as one step.
func (s *Stack) Push(op Op) {
	s.redo = nil

	if n := len(s.undo); n > 0 && coalesces(s.undo[n-1], op) {
		last := &s.undo[n-1]
		last.NewText += op.NewText
		last.After = op.After
		return
	}

	s.undo = append(s.undo, op)
	if len(s.undo) > s.limit {
		s.undo = s.undo[1:]
	}
}

// coalesces reports whether next extends prev as continued typing.
// Newlines break the run so line edits stay separate undo steps.
func coalesces(prev, next Op) bool {
	return prev.isInsert() && next.isInsert() &&
		next.newLen() == 1 &&
		!strings.ContainsRune(next.NewText, '\n') &&
		next.Start == prev.Start+prev.newLen()
}

// CanUndo reports whether an undo step exists.
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether a redo step exists.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}

// Len returns the undo depth.
func (s *Stack) Len() int {
	return len(s.undo)
}

// Clear drops both histories, for buffer switches.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}

// Undo reverses the most recent edit on buf and returns the cursor
// position from before that edit. ok is false when nothing is undoable.
func (s *Stack) Undo(buf *buffer.Buffer) (pos cursor.Position, ok bool) {
	n := len(s.undo)
	if n == 0 {
		return cursor.Position{}, false
	}
	op := s.undo[n-1]
	s.undo = s.undo[:n-1]

	if _, err := buf.Replace(op.Start, op.Start+op.newLen(), op.OldText); err != nil {
		// The buffer diverged from the history; drop everything rather
		// than apply stale offsets.
		s.Clear()
		return cursor.Position{}, false
	}

	s.redo = append(s.redo, op)
	return op.Before, true
}

// Redo reapplies the most recently undone edit and returns the cursor
// position from after that edit.
func (s *Stack) Redo(buf *buffer.Buffer) (pos cursor.Position, ok bool) {
	n := len(s.redo)
	if n == 0 {
		return cursor.Position{}, false
	}
	op := s.redo[n-1]
	s.redo = s.redo[:n-1]

	if _, err := buf.Replace(op.Start, op.Start+op.oldLen(), op.NewText); err != nil {
		s.Clear()
		return cursor.Position{}, false
	}

	s.undo = append(s.undo, op)
	return op.After, true
}

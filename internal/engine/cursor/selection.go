package cursor

import (
	"fmt"

	"github.com/empty-buffer/rusty-ai/internal/engine/rope"
)

// Selection represents a range of selected text. Anchor is where the
// selection started; Head is the live end that motion extends. When
// Anchor == Head the selection is just a cursor.
// Selection is an immutable value type.
type Selection struct {
	Anchor Position
	Head   Position
}

// NewSelection creates a selection anchored and headed at pos.
func NewSelection(pos Position) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// LineSelection creates a selection covering the whole of the given line,
// including its newline when one exists.
func LineSelection(r rope.Rope, row int) Selection {
	anchor := Position{Row: row}
	head := Position{Row: row, Col: r.LineLen(row)}
	if row < r.LenLines()-1 {
		// Include the terminator by heading at the next line start.
		head = Position{Row: row + 1}
	}
	return Selection{Anchor: anchor, Head: head}
}

// Extend returns a selection with the head moved to pos, anchor fixed.
func (s Selection) Extend(pos Position) Selection {
	return Selection{Anchor: s.Anchor, Head: pos}
}

// Collapse collapses the selection to a cursor at the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor.Equals(s.Head)
}

// Range returns the selection as an ordered half-open char range
// [start, end) against the given rope snapshot.
func (s Selection) Range(r rope.Rope) (start, end int) {
	a := s.Anchor.CharOffset(r)
	h := s.Head.CharOffset(r)
	if a <= h {
		return a, h
	}
	return h, a
}

// Start returns the lower bound position of the selection.
func (s Selection) Start(r rope.Rope) Position {
	start, _ := s.Range(r)
	return FromChar(r, start)
}

// Contains returns true if the char offset lies within the selection.
// Empty selections contain nothing.
func (s Selection) Contains(r rope.Rope, idx int) bool {
	start, end := s.Range(r)
	return idx >= start && idx < end
}

// Text returns the selected text.
func (s Selection) Text(r rope.Rope) string {
	start, end := s.Range(r)
	return r.Slice(start, end)
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Head)
	}
	return fmt.Sprintf("Selection(%s..%s)", s.Anchor, s.Head)
}

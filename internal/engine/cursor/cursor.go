// Package cursor provides the cursor and selection model.
//
// Position addresses the buffer in (row, col) coordinates; Selection
// pairs an anchor with the live head. Both are immutable value types
// converting to and from absolute char offsets through a rope snapshot.
package cursor

import (
	"fmt"

	"github.com/empty-buffer/rusty-ai/internal/engine/rope"
)

// Position is a buffer-local, unwrapped (row, col) coordinate.
// Col counts chars from the line start and excludes the newline.
type Position struct {
	Row int
	Col int
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Equals returns true if two positions are identical.
func (p Position) Equals(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}

// CharOffset converts the position to an absolute char offset.
// Out-of-bounds positions clamp to the document.
func (p Position) CharOffset(r rope.Rope) int {
	if p.Row < 0 {
		return 0
	}
	if p.Row >= r.LenLines() {
		return r.LenChars()
	}

	start := r.LineToChar(p.Row)
	col := p.Col
	if col < 0 {
		col = 0
	}
	if max := r.LineLen(p.Row); col > max {
		col = max
	}
	return start + col
}

// FromChar converts an absolute char offset to a position.
// Inverse of CharOffset for all in-bounds offsets.
func FromChar(r rope.Rope, idx int) Position {
	if idx <= 0 {
		return Position{}
	}
	if idx > r.LenChars() {
		idx = r.LenChars()
	}

	row := r.CharToLine(idx)
	return Position{Row: row, Col: idx - r.LineToChar(row)}
}

// Clamp returns the position clamped to valid document coordinates.
func (p Position) Clamp(r rope.Rope) Position {
	row := p.Row
	if row < 0 {
		row = 0
	}
	if last := r.LenLines() - 1; row > last {
		row = last
	}

	col := p.Col
	if col < 0 {
		col = 0
	}
	if max := r.LineLen(row); col > max {
		col = max
	}

	return Position{Row: row, Col: col}
}

// MoveLeft moves one char left, wrapping to the previous line end.
func (p Position) MoveLeft(r rope.Rope) Position {
	if p.Col > 0 {
		return Position{Row: p.Row, Col: p.Col - 1}
	}
	if p.Row > 0 {
		row := p.Row - 1
		return Position{Row: row, Col: r.LineLen(row)}
	}
	return p
}

// MoveRight moves one char right, wrapping to the next line start.
func (p Position) MoveRight(r rope.Rope) Position {
	if p.Col < r.LineLen(p.Row) {
		return Position{Row: p.Row, Col: p.Col + 1}
	}
	if p.Row < r.LenLines()-1 {
		return Position{Row: p.Row + 1, Col: 0}
	}
	return p
}

// MoveUp moves one line up, clamping the column to the target line.
func (p Position) MoveUp(r rope.Rope) Position {
	if p.Row == 0 {
		return p
	}
	return Position{Row: p.Row - 1, Col: p.Col}.Clamp(r)
}

// MoveDown moves one line down, clamping the column to the target line.
func (p Position) MoveDown(r rope.Rope) Position {
	if p.Row >= r.LenLines()-1 {
		return p
	}
	return Position{Row: p.Row + 1, Col: p.Col}.Clamp(r)
}

// LineStart returns the position at the start of the current line.
func (p Position) LineStart() Position {
	return Position{Row: p.Row}
}

// LineEnd returns the position at the end of the current line.
func (p Position) LineEnd(r rope.Rope) Position {
	return Position{Row: p.Row, Col: r.LineLen(p.Row)}
}

// DocStart returns the position at the start of the document.
func DocStart() Position {
	return Position{}
}

// DocEnd returns the position at the end of the document.
func DocEnd(r rope.Rope) Position {
	return FromChar(r, r.LenChars())
}

package cursor

import (
	"testing"

	"github.com/empty-buffer/rusty-ai/internal/engine/rope"
)

func TestCharOffsetFromCharInverse(t *testing.T) {
	r := rope.FromString("first\nsécond\n\nlast")

	for idx := 0; idx <= r.LenChars(); idx++ {
		pos := FromChar(r, idx)
		if got := pos.CharOffset(r); got != idx {
			t.Errorf("CharOffset(FromChar(%d)) = %d, want %d (pos %s)", idx, got, idx, pos)
		}
	}
}

func TestFromCharPositions(t *testing.T) {
	r := rope.FromString("ab\ncd")

	tests := []struct {
		idx  int
		want Position
	}{
		{0, Position{0, 0}},
		{1, Position{0, 1}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{5, Position{1, 2}},
		{99, Position{1, 2}},
	}

	for _, tt := range tests {
		if got := FromChar(r, tt.idx); !got.Equals(tt.want) {
			t.Errorf("FromChar(%d) = %s, want %s", tt.idx, got, tt.want)
		}
	}
}

func TestMoveRightWrapsToNextLine(t *testing.T) {
	r := rope.FromString("ab\ncd")

	got := Position{Row: 0, Col: 2}.MoveRight(r)
	if !got.Equals(Position{Row: 1, Col: 0}) {
		t.Errorf("MoveRight at line end = %s, want (1,0)", got)
	}

	// At document end, stays put.
	end := Position{Row: 1, Col: 2}.MoveRight(r)
	if !end.Equals(Position{Row: 1, Col: 2}) {
		t.Errorf("MoveRight at doc end = %s, want (1,2)", end)
	}
}

func TestMoveLeftWrapsToPrevLineEnd(t *testing.T) {
	r := rope.FromString("ab\ncd")

	got := Position{Row: 1, Col: 0}.MoveLeft(r)
	if !got.Equals(Position{Row: 0, Col: 2}) {
		t.Errorf("MoveLeft at line start = %s, want (0,2)", got)
	}

	start := Position{}.MoveLeft(r)
	if !start.Equals(Position{}) {
		t.Errorf("MoveLeft at doc start = %s, want (0,0)", start)
	}
}

func TestVerticalMotionClampsColumn(t *testing.T) {
	r := rope.FromString("long line here\nab\nanother long line")

	down := Position{Row: 0, Col: 10}.MoveDown(r)
	if !down.Equals(Position{Row: 1, Col: 2}) {
		t.Errorf("MoveDown onto short line = %s, want (1,2)", down)
	}

	up := Position{Row: 2, Col: 9}.MoveUp(r)
	if !up.Equals(Position{Row: 1, Col: 2}) {
		t.Errorf("MoveUp onto short line = %s, want (1,2)", up)
	}
}

func TestVerticalMotionAtBounds(t *testing.T) {
	r := rope.FromString("a\nb")

	if got := (Position{}).MoveUp(r); !got.Equals(Position{}) {
		t.Errorf("MoveUp at top = %s", got)
	}
	if got := (Position{Row: 1, Col: 1}).MoveDown(r); !got.Equals(Position{Row: 1, Col: 1}) {
		t.Errorf("MoveDown at bottom = %s", got)
	}
}

func TestEmptyDocumentCursor(t *testing.T) {
	r := rope.New()

	pos := Position{}.Clamp(r)
	if !pos.Equals(Position{}) {
		t.Errorf("Clamp on empty doc = %s, want (0,0)", pos)
	}
	if got := pos.CharOffset(r); got != 0 {
		t.Errorf("CharOffset on empty doc = %d, want 0", got)
	}
	if got := pos.MoveRight(r); !got.Equals(Position{}) {
		t.Errorf("MoveRight on empty doc = %s", got)
	}
}

func TestClamp(t *testing.T) {
	r := rope.FromString("abc\nde")

	tests := []struct {
		in   Position
		want Position
	}{
		{Position{-1, -1}, Position{0, 0}},
		{Position{0, 99}, Position{0, 3}},
		{Position{99, 99}, Position{1, 2}},
		{Position{1, 1}, Position{1, 1}},
	}

	for _, tt := range tests {
		if got := tt.in.Clamp(r); !got.Equals(tt.want) {
			t.Errorf("Clamp(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSelectionRange(t *testing.T) {
	r := rope.FromString("abcdef")

	sel := NewSelection(Position{0, 0}).Extend(Position{0, 2})
	start, end := sel.Range(r)
	if start != 0 || end != 2 {
		t.Errorf("Range = [%d, %d), want [0, 2)", start, end)
	}

	// Backward selections normalize.
	back := NewSelection(Position{0, 4}).Extend(Position{0, 1})
	start, end = back.Range(r)
	if start != 1 || end != 4 {
		t.Errorf("backward Range = [%d, %d), want [1, 4)", start, end)
	}
}

func TestSelectionDeleteScenario(t *testing.T) {
	r := rope.FromString("abcdef")
	sel := NewSelection(Position{0, 0}).Extend(Position{0, 2})

	start, end := sel.Range(r)
	r = r.Remove(start, end)

	if r.String() != "cdef" {
		t.Errorf("after delete = %q, want cdef", r.String())
	}
	if pos := FromChar(r, start); !pos.Equals(Position{0, 0}) {
		t.Errorf("cursor after delete = %s, want (0,0)", pos)
	}
}

func TestSelectionContains(t *testing.T) {
	r := rope.FromString("abcdef")
	sel := NewSelection(Position{0, 1}).Extend(Position{0, 4})

	if sel.Contains(r, 0) {
		t.Error("Contains(0) should be false")
	}
	if !sel.Contains(r, 1) || !sel.Contains(r, 3) {
		t.Error("Contains inside range should be true")
	}
	if sel.Contains(r, 4) {
		t.Error("Contains(end) should be false, range is half-open")
	}

	empty := NewSelection(Position{0, 2})
	if empty.Contains(r, 2) {
		t.Error("empty selection contains nothing")
	}
}

func TestLineSelection(t *testing.T) {
	r := rope.FromString("ab\ncd\nef")

	sel := LineSelection(r, 1)
	start, end := sel.Range(r)
	if start != 3 || end != 6 {
		t.Errorf("LineSelection(1) range = [%d, %d), want [3, 6)", start, end)
	}
	if sel.Text(r) != "cd\n" {
		t.Errorf("Text = %q, want cd\\n", sel.Text(r))
	}

	// Last line has no trailing newline.
	last := LineSelection(r, 2)
	start, end = last.Range(r)
	if start != 6 || end != 8 {
		t.Errorf("LineSelection(2) range = [%d, %d), want [6, 8)", start, end)
	}
}

func TestSelectionText(t *testing.T) {
	r := rope.FromString("hello\nworld")
	sel := NewSelection(Position{0, 3}).Extend(Position{1, 2})

	if got := sel.Text(r); got != "lo\nwo" {
		t.Errorf("Text = %q, want lo\\nwo", got)
	}
}

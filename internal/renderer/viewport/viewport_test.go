package viewport

import "testing"

func TestScrollToBelow(t *testing.T) {
	var v Viewport
	v.ScrollTo(25, 10)
	if v.Top() != 16 {
		t.Errorf("Top = %d, want 16", v.Top())
	}
	// Already visible rows do not move the viewport.
	v.ScrollTo(20, 10)
	if v.Top() != 16 {
		t.Errorf("Top = %d, want 16", v.Top())
	}
}

func TestScrollToAbove(t *testing.T) {
	var v Viewport
	v.ScrollTo(25, 10)
	v.ScrollTo(3, 10)
	if v.Top() != 3 {
		t.Errorf("Top = %d, want 3", v.Top())
	}
}

func TestScrollMovesMinimally(t *testing.T) {
	var v Viewport
	v.ScrollTo(10, 10)
	if v.Top() != 1 {
		t.Errorf("Top = %d, want 1", v.Top())
	}
}

func TestClampAfterShrink(t *testing.T) {
	var v Viewport
	v.ScrollTo(99, 10)
	v.Clamp(20, 10)
	if v.Top() != 10 {
		t.Errorf("Top = %d, want 10", v.Top())
	}
	v.Clamp(5, 10)
	if v.Top() != 0 {
		t.Errorf("Top = %d, want 0", v.Top())
	}
}

func TestReset(t *testing.T) {
	var v Viewport
	v.ScrollTo(50, 10)
	v.Reset()
	if v.Top() != 0 {
		t.Errorf("Top = %d, want 0", v.Top())
	}
}

// Package viewport tracks the window of visual rows currently on screen.
// It scrolls over wrapped rows, not buffer lines, so a long soft-wrapped
// line scrolls smoothly.
package viewport

// Viewport is the vertical scroll state of the text area.
type Viewport struct {
	top int
}

// Top returns the first visible visual row.
func (v *Viewport) Top() int {
	return v.top
}

// ScrollTo adjusts the viewport by the smallest amount that brings the
// given visual row into a window of the given height.
func (v *Viewport) ScrollTo(row, height int) {
	if height < 1 {
		height = 1
	}
	if row < v.top {
		v.top = row
	}
	if row >= v.top+height {
		v.top = row - height + 1
	}
	if v.top < 0 {
		v.top = 0
	}
}

// Clamp keeps the viewport within the document after edits shrink it.
func (v *Viewport) Clamp(totalRows, height int) {
	if height < 1 {
		height = 1
	}
	maxTop := totalRows - height
	if maxTop < 0 {
		maxTop = 0
	}
	if v.top > maxTop {
		v.top = maxTop
	}
	if v.top < 0 {
		v.top = 0
	}
}

// Reset scrolls back to the top of the document.
func (v *Viewport) Reset() {
	v.top = 0
}

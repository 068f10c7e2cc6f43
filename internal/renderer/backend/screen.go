package backend

import "github.com/empty-buffer/rusty-ai/internal/renderer/core"

// invalidCell never equals real content, forcing a repaint wherever the
// front buffer holds it.
var invalidCell = core.Cell{Rune: -1, Width: -1}

// DiffSpan is a run of horizontally contiguous cells that changed since
// the last flush.
type DiffSpan struct {
	Row   int
	Col   int
	Cells []core.Cell
}

// ScreenBuffer is a double-buffered cell grid. Frames are composed into
// the back buffer; ComputeDiff yields only the cells that differ from
// what is already on screen.
type ScreenBuffer struct {
	width  int
	height int
	front  [][]core.Cell
	back   [][]core.Cell
}

// NewScreenBuffer builds a buffer for the given dimensions. The front
// buffer starts invalid so the first flush paints everything.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{}
	sb.Resize(width, height)
	return sb
}

// Resize reallocates both buffers and invalidates the front buffer.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	sb.width, sb.height = width, height
	sb.front = fillCells(width, height, invalidCell)
	sb.back = fillCells(width, height, core.EmptyCell())
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// SetCell writes one cell into the back buffer. A wide cell also claims
// the following column with a continuation cell.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y][x] = cell
	if cell.Width == 2 && x+1 < sb.width {
		sb.back[y][x+1] = core.ContinuationCell(cell.Style)
	}
}

// SetString writes text starting at (x, y) and returns the column after
// the last written cell. Text is clipped at the right edge.
func (sb *ScreenBuffer) SetString(x, y int, text string, style core.Style) int {
	for _, r := range text {
		if x >= sb.width {
			break
		}
		cell := core.NewCell(r, style)
		sb.SetCell(x, y, cell)
		x += cell.Width
	}
	return x
}

// Fill floods a rectangle in the back buffer with cell.
func (sb *ScreenBuffer) Fill(rect core.Rect, cell core.Cell) {
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			sb.SetCell(x, y, cell)
		}
	}
}

// Clear blanks the back buffer.
func (sb *ScreenBuffer) Clear() {
	sb.back = fillCells(sb.width, sb.height, core.EmptyCell())
}

// CellAt reads the back buffer, for composition that layers over
// already drawn content.
func (sb *ScreenBuffer) CellAt(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.back[y][x]
}

// ComputeDiff returns the runs of cells that differ between the back and
// front buffers, grouped per row.
func (sb *ScreenBuffer) ComputeDiff() []DiffSpan {
	var spans []DiffSpan
	for y := 0; y < sb.height; y++ {
		x := 0
		for x < sb.width {
			if sb.back[y][x].Equals(sb.front[y][x]) {
				x++
				continue
			}
			start := x
			for x < sb.width && !sb.back[y][x].Equals(sb.front[y][x]) {
				x++
			}
			run := make([]core.Cell, x-start)
			copy(run, sb.back[y][start:x])
			spans = append(spans, DiffSpan{Row: y, Col: start, Cells: run})
		}
	}
	return spans
}

// Sync marks the back buffer as displayed.
func (sb *ScreenBuffer) Sync() {
	for y := range sb.back {
		copy(sb.front[y], sb.back[y])
	}
}

func fillCells(width, height int, cell core.Cell) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = cell
		}
	}
	return cells
}

// BufferedBackend layers a ScreenBuffer over a Backend so each frame
// only touches the cells that changed.
type BufferedBackend struct {
	backend Backend
	screen  *ScreenBuffer
}

// NewBufferedBackend wraps backend with a diffing screen buffer sized to
// the backend's current dimensions.
func NewBufferedBackend(b Backend) *BufferedBackend {
	w, h := b.Size()
	return &BufferedBackend{backend: b, screen: NewScreenBuffer(w, h)}
}

// Screen exposes the back buffer for frame composition.
func (bb *BufferedBackend) Screen() *ScreenBuffer {
	return bb.screen
}

// Size returns the current buffer dimensions.
func (bb *BufferedBackend) Size() (width, height int) {
	return bb.screen.Size()
}

// Resize follows a terminal resize and forces a full repaint.
func (bb *BufferedBackend) Resize(width, height int) {
	bb.screen.Resize(width, height)
}

// Flush pushes changed cells to the backend and displays them.
func (bb *BufferedBackend) Flush() {
	for _, span := range bb.screen.ComputeDiff() {
		x := span.Col
		for _, cell := range span.Cells {
			bb.backend.SetCell(x, span.Row, cell)
			x++
		}
	}
	bb.screen.Sync()
	bb.backend.Show()
}

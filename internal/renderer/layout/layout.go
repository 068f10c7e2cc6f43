// Package layout turns buffer lines into visual rows: tabs expand to the
// next tab stop and long lines soft wrap at the text area width.
package layout

import "github.com/empty-buffer/rusty-ai/internal/renderer/core"

// Cell is one visual column of a laid-out line. Char is the character
// offset within the source line; the pad cells of an expanded tab all
// carry the tab's own offset.
type Cell struct {
	Rune  rune
	Char  int
	Width int
}

// Engine expands and wraps lines with a fixed tab width.
type Engine struct {
	tabWidth int
}

// NewEngine builds an engine. Tab widths below 1 are treated as 1.
func NewEngine(tabWidth int) Engine {
	if tabWidth < 1 {
		tabWidth = 1
	}
	return Engine{tabWidth: tabWidth}
}

// TabWidth returns the configured tab width.
func (e Engine) TabWidth() int {
	return e.tabWidth
}

// Expand converts a line into visual cells with tabs expanded. A tab
// advances to the next multiple of the tab width.
func (e Engine) Expand(text string) []Cell {
	var cells []Cell
	vis := 0
	for char, r := range []rune(text) {
		if r == '\t' {
			pad := e.tabWidth - (vis % e.tabWidth)
			for i := 0; i < pad; i++ {
				cells = append(cells, Cell{Rune: ' ', Char: char, Width: 1})
			}
			vis += pad
			continue
		}
		w := core.RuneWidth(r)
		if w == 0 {
			// Control characters render as a single replacement column.
			cells = append(cells, Cell{Rune: '?', Char: char, Width: 1})
			vis++
			continue
		}
		cells = append(cells, Cell{Rune: r, Char: char, Width: w})
		vis += w
	}
	return cells
}

// Wrap splits visual cells into rows no wider than width. A wide cell
// that would straddle the boundary moves whole to the next row. Every
// line yields at least one row, so empty lines still occupy a row.
func Wrap(cells []Cell, width int) [][]Cell {
	if width < 1 {
		width = 1
	}
	rows := [][]Cell{nil}
	col := 0
	for _, c := range cells {
		if col+c.Width > width && col > 0 {
			rows = append(rows, nil)
			col = 0
		}
		last := len(rows) - 1
		rows[last] = append(rows[last], c)
		col += c.Width
	}
	return rows
}

// Line is a fully laid-out buffer line.
type Line struct {
	Rows [][]Cell
}

// Layout expands and wraps one line for the given text area width.
func (e Engine) Layout(text string, width int) Line {
	return Line{Rows: Wrap(e.Expand(text), width)}
}

// Height returns the number of visual rows the line occupies.
func (l Line) Height() int {
	return len(l.Rows)
}

// Locate returns the visual position of the cursor sitting on character
// offset char. An offset past the last character lands one column after
// the final cell.
func (l Line) Locate(char int) (row, col int) {
	for r, cells := range l.Rows {
		col = 0
		for _, c := range cells {
			if c.Char >= char {
				return r, col
			}
			col += c.Width
		}
		// Offsets beyond this row continue on the next, except on the
		// last row where the cursor sits after the trailing cell.
		if r == len(l.Rows)-1 {
			return r, col
		}
	}
	return 0, 0
}

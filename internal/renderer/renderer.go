// Package renderer composes editor frames into terminal cells: gutter,
// soft-wrapped text with syntax and selection styling, status and request
// lines, and the menu popups. Only cells that changed since the previous
// frame reach the terminal.
package renderer

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/empty-buffer/rusty-ai/internal/engine/cursor"
	"github.com/empty-buffer/rusty-ai/internal/engine/rope"
	"github.com/empty-buffer/rusty-ai/internal/highlight"
	"github.com/empty-buffer/rusty-ai/internal/input/mode"
	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
	"github.com/empty-buffer/rusty-ai/internal/renderer/core"
	"github.com/empty-buffer/rusty-ai/internal/renderer/layout"
	"github.com/empty-buffer/rusty-ai/internal/renderer/viewport"
)

// Reserved rows below the text area.
const chromeRows = 2

const minGutterDigits = 3

// Frame is everything one redraw needs. The renderer holds no editor
// state beyond the scroll position.
type Frame struct {
	Doc       rope.Rope
	Highlight *highlight.Provider
	Cursor    cursor.Position
	Selection *cursor.Selection

	Mode mode.Mode
	Menu mode.MenuState

	FileName string
	Modified bool

	// Request is the display form of the assistant request state.
	Request string
	// Message is a transient notice shown on the request line.
	Message string

	Picker    *mode.LoadPicker
	PickerDir string
	SaveInput *mode.SaveInput
	ShowHelp  bool
}

// Renderer draws frames onto a backend through a diffing screen buffer.
type Renderer struct {
	buffered *backend.BufferedBackend
	term     backend.Backend
	theme    Theme
	engine   layout.Engine
	view     viewport.Viewport
}

// New builds a renderer over an initialized backend.
func New(b backend.Backend, theme Theme, tabWidth int) *Renderer {
	return &Renderer{
		buffered: backend.NewBufferedBackend(b),
		term:     b,
		theme:    theme,
		engine:   layout.NewEngine(tabWidth),
	}
}

// Resize follows a terminal resize.
func (r *Renderer) Resize(width, height int) {
	r.buffered.Resize(width, height)
}

// Draw renders one frame and flushes the changed cells.
func (r *Renderer) Draw(f Frame) {
	width, height := r.buffered.Size()
	if width <= 0 || height <= 0 {
		return
	}
	screen := r.buffered.Screen()
	screen.Clear()

	textHeight := height - chromeRows
	if textHeight < 1 {
		textHeight = 1
	}
	gutterWidth := r.gutterWidth(f.Doc)
	textWidth := width - gutterWidth
	if textWidth < 1 {
		textWidth = 1
	}

	lines, offsets, totalRows := r.layoutDoc(f.Doc, textWidth)

	cursorRow, cursorCol := r.cursorVisual(f, lines, offsets)
	r.view.ScrollTo(cursorRow, textHeight)
	r.view.Clamp(totalRows, textHeight)

	r.drawText(screen, f, lines, offsets, gutterWidth, textWidth, textHeight)
	r.drawRequestLine(screen, f, width, height)
	r.drawStatusLine(screen, f, width, height)

	switch {
	case f.Menu == mode.MenuPickLoad && f.Picker != nil:
		r.drawLoadPicker(screen, f, width, height)
	case f.Menu == mode.MenuPickSave && f.SaveInput != nil:
		r.drawSavePrompt(screen, f, width, height)
	}
	if f.ShowHelp {
		r.drawHelp(screen, width, height)
	}

	r.placeCursor(f, gutterWidth, cursorRow, cursorCol, width, height)
	r.buffered.Flush()
}

// gutterWidth returns the line number column width including its
// trailing space.
func (r *Renderer) gutterWidth(doc rope.Rope) int {
	digits := len(strconv.Itoa(doc.LenLines()))
	if digits < minGutterDigits {
		digits = minGutterDigits
	}
	return digits + 1
}

// layoutDoc lays out every line and returns the per-line layouts, each
// line's first visual row, and the total visual row count.
func (r *Renderer) layoutDoc(doc rope.Rope, textWidth int) ([]layout.Line, []int, int) {
	n := doc.LenLines()
	lines := make([]layout.Line, n)
	offsets := make([]int, n)
	row := 0
	for i := 0; i < n; i++ {
		offsets[i] = row
		lines[i] = r.engine.Layout(doc.Line(i), textWidth)
		row += lines[i].Height()
	}
	return lines, offsets, row
}

func (r *Renderer) cursorVisual(f Frame, lines []layout.Line, offsets []int) (row, col int) {
	line := f.Cursor.Row
	if line < 0 || line >= len(lines) {
		return 0, 0
	}
	lr, lc := lines[line].Locate(f.Cursor.Col)
	return offsets[line] + lr, lc
}

func (r *Renderer) drawText(screen *backend.ScreenBuffer, f Frame, lines []layout.Line, offsets []int, gutterWidth, textWidth, textHeight int) {
	var selStart, selEnd int
	if f.Selection != nil {
		selStart, selEnd = f.Selection.Range(f.Doc)
	}

	top := r.view.Top()
	line, rowInLine := findVisualRow(offsets, lines, top)

	for y := 0; y < textHeight && line < len(lines); y++ {
		cells := lines[line].Rows[rowInLine]

		r.drawGutter(screen, y, line, rowInLine == 0, gutterWidth)

		lineStart := f.Doc.LineToChar(line)
		x := gutterWidth
		for _, c := range cells {
			if x >= gutterWidth+textWidth {
				break
			}
			abs := lineStart + c.Char
			style := core.DefaultStyle()
			switch {
			case f.Selection != nil && abs >= selStart && abs < selEnd:
				style = r.theme.Selection
			case f.Highlight != nil:
				style = r.theme.SyntaxStyle(f.Highlight.StyleAt(f.Doc, line, c.Char))
			}
			cell := core.NewCell(c.Rune, style)
			if c.Width != cell.Width {
				cell.Width = c.Width
			}
			screen.SetCell(x, y, cell)
			x += c.Width
		}

		rowInLine++
		if rowInLine >= lines[line].Height() {
			line++
			rowInLine = 0
		}
	}
}

func (r *Renderer) drawGutter(screen *backend.ScreenBuffer, y, line int, firstRow bool, gutterWidth int) {
	if !firstRow {
		// Continuation rows of a wrapped line carry no number.
		return
	}
	num := strconv.Itoa(line + 1)
	x := gutterWidth - 1 - len(num)
	for i, ch := range num {
		screen.SetCell(x+i, y, core.NewCell(ch, r.theme.Gutter))
	}
}

func (r *Renderer) drawStatusLine(screen *backend.ScreenBuffer, f Frame, width, height int) {
	y := height - 1

	left := fmt.Sprintf("%s%s - %s", displayName(f.FileName), modifiedMarker(f.Modified), f.Mode)
	if f.Menu.Active() {
		left = "WAITING FOR COMMAND"
	}
	right := fmt.Sprintf(" %d:%d ", f.Cursor.Row+1, f.Cursor.Col+1)

	screen.Fill(core.RectFromSize(y, 0, 1, width), core.NewCell(' ', r.theme.Status))
	screen.SetString(0, y, left, r.theme.Status)
	if rx := width - len(right); rx > len(left) {
		screen.SetString(rx, y, right, r.theme.Status)
	}
}

func (r *Renderer) drawRequestLine(screen *backend.ScreenBuffer, f Frame, width, height int) {
	y := height - 2
	if y < 0 {
		return
	}
	screen.SetString(0, y, "Request Status: "+f.Request, r.theme.Request)
	if f.Message != "" {
		msg := " " + f.Message
		if rx := width - len(msg); rx > 0 {
			screen.SetString(rx, y, msg, r.theme.Message)
		}
	}
}

func (r *Renderer) drawLoadPicker(screen *backend.ScreenBuffer, f Frame, width, height int) {
	entries := f.Picker.Entries()

	innerWidth := len(pickerTitle)
	for _, e := range entries {
		if len(e) > innerWidth {
			innerWidth = len(e)
		}
	}
	innerWidth += 2
	if innerWidth > width-4 {
		innerWidth = width - 4
	}
	innerHeight := len(entries)
	if max := height - 6; innerHeight > max {
		innerHeight = max
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	box := centeredRect(width, height, innerWidth+2, innerHeight+2)
	r.drawBox(screen, box, pickerTitle)

	// Keep the selection visible inside the box.
	first := 0
	if sel := f.Picker.Selected(); sel >= innerHeight {
		first = sel - innerHeight + 1
	}
	for i := 0; i < innerHeight && first+i < len(entries); i++ {
		style := r.theme.Popup
		if first+i == f.Picker.Selected() {
			style = r.theme.PopupSelected
		}
		y := box.Top + 1 + i
		screen.Fill(core.RectFromSize(y, box.Left+1, 1, innerWidth), core.NewCell(' ', style))
		screen.SetString(box.Left+2, y, truncate(entries[first+i], innerWidth-2), style)
	}
}

func (r *Renderer) drawSavePrompt(screen *backend.ScreenBuffer, f Frame, width, height int) {
	innerWidth := 32
	if innerWidth > width-4 {
		innerWidth = width - 4
	}
	box := centeredRect(width, height, innerWidth+2, 3)
	r.drawBox(screen, box, saveTitle)

	y := box.Top + 1
	screen.Fill(core.RectFromSize(y, box.Left+1, 1, innerWidth), core.NewCell(' ', r.theme.Popup))
	screen.SetString(box.Left+2, y, truncate(f.SaveInput.Text(), innerWidth-2), r.theme.Popup)
}

func (r *Renderer) drawHelp(screen *backend.ScreenBuffer, width, height int) {
	innerWidth := 0
	for _, l := range helpLines {
		if len(l) > innerWidth {
			innerWidth = len(l)
		}
	}
	boxW := innerWidth + 4
	boxH := len(helpLines) + 2
	box := core.RectFromSize(height-chromeRows-boxH, width-boxW, boxH, boxW)
	if box.Top < 0 || box.Left < 0 {
		return
	}
	r.drawBox(screen, box, helpTitle)
	for i, l := range helpLines {
		y := box.Top + 1 + i
		screen.Fill(core.RectFromSize(y, box.Left+1, 1, boxW-2), core.NewCell(' ', r.theme.Popup))
		screen.SetString(box.Left+2, y, l, r.theme.Popup)
	}
}

func (r *Renderer) drawBox(screen *backend.ScreenBuffer, box core.Rect, title string) {
	style := r.theme.Popup
	screen.Fill(box, core.NewCell(' ', style))

	for x := box.Left + 1; x < box.Right-1; x++ {
		screen.SetCell(x, box.Top, core.NewCell('─', style))
		screen.SetCell(x, box.Bottom-1, core.NewCell('─', style))
	}
	for y := box.Top + 1; y < box.Bottom-1; y++ {
		screen.SetCell(box.Left, y, core.NewCell('│', style))
		screen.SetCell(box.Right-1, y, core.NewCell('│', style))
	}
	screen.SetCell(box.Left, box.Top, core.NewCell('┌', style))
	screen.SetCell(box.Right-1, box.Top, core.NewCell('┐', style))
	screen.SetCell(box.Left, box.Bottom-1, core.NewCell('└', style))
	screen.SetCell(box.Right-1, box.Bottom-1, core.NewCell('┘', style))

	if title != "" && len(title)+2 < box.Width() {
		screen.SetString(box.Left+(box.Width()-len(title))/2, box.Top, title, style)
	}
}

func (r *Renderer) placeCursor(f Frame, gutterWidth, cursorRow, cursorCol, width, height int) {
	if f.Menu == mode.MenuPickLoad {
		r.term.HideCursor()
		return
	}
	if f.Menu == mode.MenuPickSave && f.SaveInput != nil {
		innerWidth := 32
		if innerWidth > width-4 {
			innerWidth = width - 4
		}
		box := centeredRect(width, height, innerWidth+2, 3)
		x := box.Left + 2 + f.SaveInput.Cursor()
		if x > box.Right-2 {
			x = box.Right - 2
		}
		r.term.SetCursorShape(backend.CursorBar)
		r.term.ShowCursor(x, box.Top+1)
		return
	}

	shape := backend.CursorBlock
	if f.Mode == mode.Insert {
		shape = backend.CursorBar
	}
	r.term.SetCursorShape(shape)

	x := gutterWidth + cursorCol
	if x >= width {
		x = width - 1
	}
	y := cursorRow - r.view.Top()
	if y < 0 || y >= height-chromeRows {
		r.term.HideCursor()
		return
	}
	r.term.ShowCursor(x, y)
}

const (
	pickerTitle = " Pick a file "
	saveTitle   = " Save as "
	helpTitle   = " Keys "
)

var helpLines = []string{
	"h j k l  move",
	"i        insert",
	"v / V    select / line select",
	"g        goto menu",
	"space    file menu",
	"\"        assistant menu",
	"s        save",
	"u / U    undo / redo",
	"q        quit",
}

func displayName(path string) string {
	if path == "" {
		return "[scratch]"
	}
	return filepath.Base(path)
}

func modifiedMarker(modified bool) string {
	if modified {
		return " [+]"
	}
	return ""
}

func centeredRect(screenW, screenH, w, h int) core.Rect {
	if w > screenW {
		w = screenW
	}
	if h > screenH {
		h = screenH
	}
	top := (screenH - h) / 2
	left := (screenW - w) / 2
	return core.RectFromSize(top, left, h, w)
}

func truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// findVisualRow maps an absolute visual row to its line and the row
// index within that line.
func findVisualRow(offsets []int, lines []layout.Line, row int) (line, rowInLine int) {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= row {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if len(offsets) == 0 {
		return 0, 0
	}
	rowInLine = row - offsets[lo]
	if rowInLine < 0 || rowInLine >= lines[lo].Height() {
		rowInLine = 0
	}
	return lo, rowInLine
}

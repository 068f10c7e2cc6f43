// Package backend abstracts the terminal the editor draws to, so the
// renderer and its tests can run against an in-memory screen.
package backend

import "github.com/empty-buffer/rusty-ai/internal/renderer/core"

// CursorShape selects the hardware cursor appearance.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorBar
)

// EventType identifies a terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key identifies a non-character key. Character input arrives as KeyRune
// with the Rune field set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlS
	KeyCtrlV
)

// ModMask is a set of modifier keys held during a key event.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether the mask contains mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Event is a terminal event. Key fields are set for EventKey, Width and
// Height for EventResize.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	Width  int
	Height int
}

// KeyEvent builds a special-key event.
func KeyEvent(key Key) Event {
	return Event{Type: EventKey, Key: key}
}

// RuneEvent builds a character key event.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// Backend is the terminal surface the renderer draws cells onto.
type Backend interface {
	// Init claims the terminal. Must be called before any other method.
	Init() error

	// Fini restores the terminal to its previous state.
	Fini()

	// Size returns the terminal dimensions in cells.
	Size() (width, height int)

	// SetCell writes one cell. Out-of-range positions are ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear blanks the whole screen with the default style.
	Clear()

	// Show flushes pending writes to the display.
	Show()

	// ShowCursor places and reveals the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor hides the hardware cursor.
	HideCursor()

	// SetCursorShape switches between block and bar cursors.
	SetCursorShape(shape CursorShape)

	// PollEvent blocks until the next event. It returns an EventNone
	// event after Fini.
	PollEvent() Event

	// PostEvent injects a synthetic event into the queue.
	PostEvent(event Event)
}

// NullBackend is an in-memory backend for tests. It records cells and
// cursor state and serves posted events.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorShape   CursorShape
	events        chan Event
	showCount     int
}

// NewNullBackend builds a null backend with fixed dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 64),
	}
}

func (b *NullBackend) Init() error {
	b.cells = blankCells(b.width, b.height)
	return nil
}

func (b *NullBackend) Fini() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) Clear() {
	b.cells = blankCells(b.width, b.height)
}

func (b *NullBackend) Show() {
	b.showCount++
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) SetCursorShape(shape CursorShape) {
	b.cursorShape = shape
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// CellAt returns the stored cell for assertions.
func (b *NullBackend) CellAt(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// RowText reconstructs a screen row as a string for assertions.
func (b *NullBackend) RowText(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.IsContinuation() {
			continue
		}
		if c.Rune == 0 {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}

// Cursor reports the hardware cursor state for assertions.
func (b *NullBackend) Cursor() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// CursorShapeValue reports the last requested cursor shape.
func (b *NullBackend) CursorShapeValue() CursorShape {
	return b.cursorShape
}

// ShowCount reports how many times Show ran.
func (b *NullBackend) ShowCount() int {
	return b.showCount
}

func blankCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyCell()
		}
	}
	return cells
}

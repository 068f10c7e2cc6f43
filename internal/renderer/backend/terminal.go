package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/empty-buffer/rusty-ai/internal/renderer/core"
)

// Terminal drives a real terminal through tcell.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal builds a terminal backend. Init must still be called.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

func (t *Terminal) Fini() {
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		// tcell tracks wide character spill itself.
		return
	}
	t.screen.SetContent(x, y, cell.Rune, nil, toTcellStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.screen.HideCursor()
}

func (t *Terminal) SetCursorShape(shape CursorShape) {
	switch shape {
	case CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	default:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}
}

func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			return translateKey(tev)
		case *tcell.EventResize:
			w, h := tev.Size()
			t.screen.Sync()
			return Event{Type: EventResize, Width: w, Height: h}
		default:
			// Mouse, paste, and focus events are not handled.
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, event.Rune, tcell.ModNone))
	case EventResize:
		// Resizes come from the terminal itself.
	}
}

func toTcellStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.Default {
		style = style.Foreground(tcell.NewRGBColor(
			int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.Default {
		style = style.Background(tcell.NewRGBColor(
			int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func translateKey(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey, Mod: translateMods(ev.Modifiers())}

	switch ev.Key() {
	case tcell.KeyRune:
		out.Key = KeyRune
		out.Rune = ev.Rune()
	case tcell.KeyEscape:
		out.Key = KeyEscape
	case tcell.KeyEnter:
		out.Key = KeyEnter
	case tcell.KeyTab:
		out.Key = KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
	case tcell.KeyDelete:
		out.Key = KeyDelete
	case tcell.KeyUp:
		out.Key = KeyUp
	case tcell.KeyDown:
		out.Key = KeyDown
	case tcell.KeyLeft:
		out.Key = KeyLeft
	case tcell.KeyRight:
		out.Key = KeyRight
	case tcell.KeyHome:
		out.Key = KeyHome
	case tcell.KeyEnd:
		out.Key = KeyEnd
	case tcell.KeyPgUp:
		out.Key = KeyPageUp
	case tcell.KeyPgDn:
		out.Key = KeyPageDown
	case tcell.KeyCtrlC:
		out.Key = KeyCtrlC
	case tcell.KeyCtrlQ:
		out.Key = KeyCtrlQ
	case tcell.KeyCtrlS:
		out.Key = KeyCtrlS
	case tcell.KeyCtrlV:
		out.Key = KeyCtrlV
	default:
		out.Key = KeyNone
	}
	return out
}

func translateMods(mods tcell.ModMask) ModMask {
	var out ModMask
	if mods&tcell.ModShift != 0 {
		out |= ModShift
	}
	if mods&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if mods&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	return out
}

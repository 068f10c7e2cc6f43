package app

import (
	"path/filepath"
	"strings"

	"github.com/empty-buffer/rusty-ai/internal/clipboard"
	"github.com/empty-buffer/rusty-ai/internal/engine/cursor"
	"github.com/empty-buffer/rusty-ai/internal/files"
	"github.com/empty-buffer/rusty-ai/internal/input/mode"
	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
)

// HandleEvent processes one terminal event. It returns ErrQuit when the
// user asked to leave.
func (e *Editor) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		e.rend.Resize(ev.Width, ev.Height)
		return nil
	case backend.EventKey:
		return e.handleKey(ev)
	default:
		return nil
	}
}

func (e *Editor) handleKey(ev backend.Event) error {
	// Ctrl+Q leaves from anywhere, menus and insert mode included.
	if ev.Key == backend.KeyCtrlQ || ev.Key == backend.KeyCtrlC {
		return ErrQuit
	}

	if e.menu.Active() {
		e.handleMenuKey(ev)
		return nil
	}

	switch e.mode {
	case mode.Insert:
		e.handleInsertKey(ev)
	case mode.Select:
		e.handleSelectKey(ev)
	default:
		return e.handleNormalKey(ev)
	}
	return nil
}

func (e *Editor) handleNormalKey(ev backend.Event) error {
	if e.moveCursor(ev) {
		return nil
	}

	if ev.Key == backend.KeyCtrlS {
		e.save()
		return nil
	}
	if ev.Key != backend.KeyRune {
		return nil
	}

	switch ev.Rune {
	case 'i':
		e.enterInsertMode()
	case 'v':
		sel := cursor.NewSelection(e.cur)
		e.sel = &sel
		e.mode = mode.Select
	case 'V':
		sel := cursor.LineSelection(e.buf.Snapshot(), e.cur.Row)
		e.sel = &sel
		e.mode = mode.Select
	case 'g':
		e.menu = mode.MenuGoTo
	case ' ':
		e.menu = mode.MenuFile
	case '"':
		e.menu = mode.MenuAI
	case 's':
		e.save()
	case 'p':
		e.paste()
	case 'u':
		e.undoEdit()
	case 'U':
		e.redoEdit()
	case '?':
		e.showHelp = !e.showHelp
	case 'q':
		return ErrQuit
	}
	return nil
}

func (e *Editor) handleInsertKey(ev backend.Event) {
	switch ev.Key {
	case backend.KeyEscape:
		e.mode = mode.Normal
	case backend.KeyEnter:
		e.insertText("\n")
	case backend.KeyTab:
		e.insertText("\t")
	case backend.KeyBackspace:
		e.backspace()
	case backend.KeyDelete:
		e.deleteForward()
	case backend.KeyCtrlV:
		e.paste()
	case backend.KeyRune:
		e.insertText(string(ev.Rune))
	default:
		e.moveCursor(ev)
	}
}

func (e *Editor) handleSelectKey(ev backend.Event) {
	if e.moveCursor(ev) {
		if e.sel != nil {
			sel := e.sel.Extend(e.cur)
			e.sel = &sel
		}
		return
	}

	switch {
	case ev.Key == backend.KeyEscape:
		e.sel = nil
		e.mode = mode.Normal
	case ev.Key == backend.KeyRune && ev.Rune == 'y':
		e.yankSelection()
	case ev.Key == backend.KeyRune && ev.Rune == 'd':
		e.deleteSelection()
	}
}

// moveCursor handles the shared movement keys. It reports whether the
// event moved the cursor.
func (e *Editor) moveCursor(ev backend.Event) bool {
	snap := e.buf.Snapshot()

	key := ev.Key
	if key == backend.KeyRune && e.mode != mode.Insert {
		switch ev.Rune {
		case 'h':
			key = backend.KeyLeft
		case 'j':
			key = backend.KeyDown
		case 'k':
			key = backend.KeyUp
		case 'l':
			key = backend.KeyRight
		}
	}

	switch key {
	case backend.KeyLeft:
		e.cur = e.cur.MoveLeft(snap)
	case backend.KeyRight:
		e.cur = e.cur.MoveRight(snap)
	case backend.KeyUp:
		e.cur = e.cur.MoveUp(snap)
	case backend.KeyDown:
		e.cur = e.cur.MoveDown(snap)
	case backend.KeyHome:
		e.cur = e.cur.LineStart()
	case backend.KeyEnd:
		e.cur = e.cur.LineEnd(snap)
	default:
		return false
	}
	return true
}

func (e *Editor) yankSelection() {
	if e.sel == nil {
		return
	}
	text := e.sel.Text(e.buf.Snapshot())
	e.sel = nil
	e.mode = mode.Normal

	if text == "" {
		e.setMessage(clipboard.ErrNoSelection.Error())
		return
	}
	if err := clipboard.Set(text); err != nil {
		e.log.Warn("clipboard: %v", err)
		e.setMessage("clipboard unavailable")
	} else {
		e.setMessage("yanked selection")
	}
}

func (e *Editor) deleteSelection() {
	if e.sel == nil {
		return
	}
	start, end := e.sel.Range(e.buf.Snapshot())
	e.sel = nil
	e.mode = mode.Normal
	if start < end {
		e.removeRange(start, end)
	}
}

func (e *Editor) paste() {
	text, err := clipboard.Get()
	if err != nil {
		e.log.Warn("clipboard: %v", err)
		e.setMessage("clipboard unavailable")
		return
	}
	if text != "" {
		e.insertText(text)
	}
}

// handleMenuKey runs the active menu. Plain menus consume exactly this
// keystroke; pickers stay open until confirmed or cancelled.
func (e *Editor) handleMenuKey(ev backend.Event) {
	menu := e.menu
	if !menu.IsPicker() {
		e.menu = mode.MenuInactive
	}

	switch menu {
	case mode.MenuGoTo:
		e.handleGoToKey(ev)
	case mode.MenuFile:
		e.handleFileKey(ev)
	case mode.MenuAI:
		e.handleAIKey(ev)
	case mode.MenuPickLoad:
		e.handlePickLoadKey(ev)
	case mode.MenuPickSave:
		e.handlePickSaveKey(ev)
	}
}

func (e *Editor) handleGoToKey(ev backend.Event) {
	if ev.Key != backend.KeyRune {
		return
	}
	switch ev.Rune {
	case 'g':
		e.cur = cursor.DocStart()
	case 'e':
		e.cur = cursor.DocEnd(e.buf.Snapshot())
	}
}

func (e *Editor) handleFileKey(ev backend.Event) {
	if ev.Key != backend.KeyRune {
		return
	}
	switch ev.Rune {
	case 'l':
		e.openLoadPicker()
	case 's':
		e.openSavePrompt()
	case 'n':
		e.newBuffer()
	}
}

func (e *Editor) handleAIKey(ev backend.Event) {
	if ev.Key != backend.KeyRune {
		return
	}
	switch ev.Rune {
	case 'l':
		e.submitToAssistant()
	}
}

func (e *Editor) handlePickLoadKey(ev backend.Event) {
	switch {
	case ev.Key == backend.KeyEscape:
		e.menu = mode.MenuInactive
	case ev.Key == backend.KeyUp || (ev.Key == backend.KeyRune && ev.Rune == 'k'):
		e.picker.MoveUp()
	case ev.Key == backend.KeyDown || (ev.Key == backend.KeyRune && ev.Rune == 'j'):
		e.picker.MoveDown()
	case ev.Key == backend.KeyEnter:
		e.confirmPick()
	}
}

// confirmPick opens the selected entry: directories re-list in place,
// files load and close the picker.
func (e *Editor) confirmPick() {
	name := e.picker.Current()
	if name == "" {
		e.menu = mode.MenuInactive
		return
	}

	if name == files.ParentDir || strings.HasSuffix(name, "/") {
		e.pickerDir = files.ChangeDir(e.pickerDir, strings.TrimSuffix(name, "/"))
		e.openLoadPicker()
		return
	}

	e.menu = mode.MenuInactive
	e.loadFile(filepath.Join(e.pickerDir, name))
}

func (e *Editor) handlePickSaveKey(ev backend.Event) {
	switch ev.Key {
	case backend.KeyEscape:
		e.saveInput.Reset()
		e.menu = mode.MenuInactive
	case backend.KeyEnter:
		name := strings.TrimSpace(e.saveInput.Text())
		e.saveInput.Reset()
		e.menu = mode.MenuInactive
		if name == "" {
			return
		}
		path := filepath.Join(e.pickerDir, name)
		e.buf.SetPath(path)
		e.hl.SetLanguageFromPath(path)
		e.hl.Clear()
		e.saveTo(path)
	case backend.KeyBackspace:
		e.saveInput.Backspace()
	case backend.KeyDelete:
		e.saveInput.Delete()
	case backend.KeyLeft:
		e.saveInput.MoveLeft()
	case backend.KeyRight:
		e.saveInput.MoveRight()
	case backend.KeyRune:
		e.saveInput.Insert(ev.Rune)
	}
}

// Package app wires the buffer, modal input state, highlighter, assistant
// coordinator, and renderer into the running editor.
package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/empty-buffer/rusty-ai/internal/ai"
	"github.com/empty-buffer/rusty-ai/internal/chat"
	"github.com/empty-buffer/rusty-ai/internal/config"
	"github.com/empty-buffer/rusty-ai/internal/engine/buffer"
	"github.com/empty-buffer/rusty-ai/internal/engine/cursor"
	"github.com/empty-buffer/rusty-ai/internal/engine/history"
	"github.com/empty-buffer/rusty-ai/internal/files"
	"github.com/empty-buffer/rusty-ai/internal/highlight"
	"github.com/empty-buffer/rusty-ai/internal/input/mode"
	"github.com/empty-buffer/rusty-ai/internal/renderer"
	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
)

// messageTTL is how long a transient status message stays visible.
const messageTTL = 4 * time.Second

// Editor owns all editor state and handles one terminal event at a time.
// It is single-goroutine; the only concurrency is inside the assistant
// coordinator, consumed through Poll on the render tick.
type Editor struct {
	log *Logger
	cfg config.Config

	buf *buffer.Buffer
	cur cursor.Position
	sel *cursor.Selection

	mode mode.Mode
	menu mode.MenuState

	hl    *highlight.Provider
	coord *ai.Coordinator
	chat  *chat.Context
	hist  *chat.History
	undo  *history.Stack

	rend *renderer.Renderer
	term backend.Backend

	picker    mode.LoadPicker
	saveInput mode.SaveInput
	pickerDir string

	watch    *files.Watcher
	lastSave time.Time

	message      string
	messageUntil time.Time
	showHelp     bool
}

// NewEditor assembles an editor over an initialized backend. The chat
// history file is opened as the initial buffer so past conversations are
// in reach immediately.
func NewEditor(cfg config.Config, client ai.Client, term backend.Backend, log *Logger) *Editor {
	if log == nil {
		log = NullLogger
	}

	hist := chat.NewHistory(".")
	path := hist.DefaultPath()
	content, err := hist.LoadDefault()
	if err != nil {
		log.Warn("load history %s: %v", path, err)
	}

	hl := highlight.NewProvider(highlight.DefaultMapping())
	hl.SetLanguageFromPath(path)

	e := &Editor{
		log:       log,
		cfg:       cfg,
		buf:       buffer.NewFromString(content, buffer.WithPath(path)),
		hl:        hl,
		coord:     ai.NewCoordinator(client),
		chat:      chat.NewContext(),
		hist:      hist,
		undo:      history.NewStack(0),
		rend:      renderer.New(term, renderer.DefaultTheme(), cfg.TabWidth),
		term:      term,
		pickerDir: ".",
	}

	if st := config.LoadState("."); st.LastFile != "" {
		log.Debug("previous session edited %s", st.LastFile)
	}

	if w, err := files.NewWatcher(); err != nil {
		log.Warn("file watching disabled: %v", err)
	} else {
		e.watch = w
		if err := w.Watch(path); err != nil {
			log.Debug("watch %s: %v", path, err)
		}
	}
	return e
}

// Close releases background resources.
func (e *Editor) Close() {
	if e.watch != nil {
		if err := e.watch.Close(); err != nil {
			e.log.Warn("close watcher: %v", err)
		}
	}
}

// rewatch points the file watcher at the buffer's current path.
func (e *Editor) rewatch() {
	if e.watch == nil {
		return
	}
	if err := e.watch.Watch(e.buf.Path()); err != nil {
		e.log.Debug("watch %s: %v", e.buf.Path(), err)
	}
}

// drainWatch surfaces external changes to the open file. Notifications
// right after our own save are the save itself and stay quiet.
func (e *Editor) drainWatch(now time.Time) {
	if e.watch == nil {
		return
	}
	changed := false
	for {
		select {
		case _, ok := <-e.watch.Events():
			if !ok {
				e.watch = nil
				return
			}
			changed = true
		default:
			if changed && now.Sub(e.lastSave) > time.Second {
				e.setMessage("file changed on disk")
			}
			return
		}
	}
}

// Open replaces the startup buffer with the named file, for a file
// given on the command line.
func (e *Editor) Open(path string) {
	e.loadFile(path)
}

// Buffer exposes the buffer for tests.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

// Mode returns the current editing mode.
func (e *Editor) Mode() mode.Mode {
	return e.mode
}

// Menu returns the current menu state.
func (e *Editor) Menu() mode.MenuState {
	return e.menu
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() cursor.Position {
	return e.cur
}

// Message returns the transient status message, if any.
func (e *Editor) Message() string {
	return e.message
}

// Tick runs the per-frame work: expiring messages and consuming any
// completed assistant response.
func (e *Editor) Tick(now time.Time) {
	if e.message != "" && now.After(e.messageUntil) {
		e.message = ""
	}
	e.consumeResponse()
	e.drainWatch(now)
}

// consumeResponse appends a completed assistant reply at the current end
// of the document, so edits made while the request was in flight are
// never clobbered.
func (e *Editor) consumeResponse() {
	resp := e.coord.Poll()
	if resp == nil {
		return
	}
	if resp.Err != nil {
		e.log.Error("assistant request failed: %v", resp.Err)
		return
	}

	off := e.buf.Append(resp.Content)
	snap := e.buf.Snapshot()
	e.hl.InvalidateFrom(snap.CharToLine(off), snap.LenChars())
	e.cur = cursor.DocEnd(snap)
	e.chat.Record(chat.RoleSystem, resp.Content)
	if err := e.hist.Append(resp.Content); err != nil {
		e.log.Warn("append history: %v", err)
	}
	e.log.Info("assistant reply appended, %d chars", len([]rune(resp.Content)))
}

// frame assembles the render frame from current state.
func (e *Editor) frame() renderer.Frame {
	state, errMsg := e.coord.State()
	request := state.String()
	if state == ai.StateError {
		request = "Error: " + errMsg
	}

	f := renderer.Frame{
		Doc:       e.buf.Snapshot(),
		Highlight: e.hl,
		Cursor:    e.cur,
		Selection: e.sel,
		Mode:      e.mode,
		Menu:      e.menu,
		FileName:  e.buf.Path(),
		Modified:  e.buf.Modified(),
		Request:   request,
		Message:   e.message,
		ShowHelp:  e.showHelp,
	}
	switch e.menu {
	case mode.MenuPickLoad:
		f.Picker = &e.picker
		f.PickerDir = e.pickerDir
	case mode.MenuPickSave:
		f.SaveInput = &e.saveInput
	}
	return f
}

func (e *Editor) setMessage(msg string) {
	e.message = msg
	e.messageUntil = time.Now().Add(messageTTL)
}

// insertText inserts at the cursor and moves it past the insertion.
func (e *Editor) insertText(text string) {
	snap := e.buf.Snapshot()
	off := e.cur.CharOffset(snap)
	line := e.cur.Row
	before := e.cur

	if _, err := e.buf.Insert(off, text); err != nil {
		e.log.Error("insert at %d: %v", off, err)
		return
	}

	snap = e.buf.Snapshot()
	e.cur = cursor.FromChar(snap, off+len([]rune(text)))
	e.undo.Push(history.Op{
		Start:   off,
		NewText: text,
		Before:  before,
		After:   e.cur,
	})

	if strings.ContainsRune(text, '\n') {
		e.hl.InvalidateFrom(line, snap.LenChars())
	} else {
		e.hl.InvalidateLine(line, snap.LenChars())
	}
}

// removeRange deletes [start, end) and leaves the cursor at start.
func (e *Editor) removeRange(start, end int) {
	snap := e.buf.Snapshot()
	line := snap.CharToLine(start)
	before := e.cur
	old := snap.Slice(start, end)

	if err := e.buf.Remove(start, end); err != nil {
		e.log.Error("remove [%d, %d): %v", start, end, err)
		return
	}

	snap = e.buf.Snapshot()
	e.cur = cursor.FromChar(snap, start)
	e.undo.Push(history.Op{
		Start:   start,
		OldText: old,
		Before:  before,
		After:   e.cur,
	})
	e.hl.InvalidateFrom(line, snap.LenChars())
}

// undoEdit reverses the last edit and re-syncs highlighting.
func (e *Editor) undoEdit() {
	pos, ok := e.undo.Undo(e.buf)
	if !ok {
		e.setMessage("nothing to undo")
		return
	}
	snap := e.buf.Snapshot()
	e.cur = pos.Clamp(snap)
	e.hl.InvalidateFrom(0, snap.LenChars())
}

// redoEdit reapplies the last undone edit.
func (e *Editor) redoEdit() {
	pos, ok := e.undo.Redo(e.buf)
	if !ok {
		e.setMessage("nothing to redo")
		return
	}
	snap := e.buf.Snapshot()
	e.cur = pos.Clamp(snap)
	e.hl.InvalidateFrom(0, snap.LenChars())
}

func (e *Editor) backspace() {
	off := e.cur.CharOffset(e.buf.Snapshot())
	if off > 0 {
		e.removeRange(off-1, off)
	}
}

func (e *Editor) deleteForward() {
	snap := e.buf.Snapshot()
	off := e.cur.CharOffset(snap)
	if off < snap.LenChars() {
		e.removeRange(off, off+1)
	}
}

// enterInsertMode switches to insert. A fully empty document gets a
// seed newline first so there is a line to type on.
func (e *Editor) enterInsertMode() {
	if e.buf.LenChars() == 0 {
		if _, err := e.buf.Insert(0, "\n"); err != nil {
			e.log.Error("seed newline: %v", err)
		}
		snap := e.buf.Snapshot()
		e.hl.InvalidateFrom(0, snap.LenChars())
		e.cur = cursor.DocStart()
	}
	e.mode = mode.Insert
}

// save writes the buffer to its path, or opens the save prompt when the
// buffer has none.
func (e *Editor) save() {
	path := e.buf.Path()
	if path == "" {
		e.openSavePrompt()
		return
	}
	e.saveTo(path)
}

func (e *Editor) saveTo(path string) {
	if err := files.Save(path, e.buf.Text()); err != nil {
		opErr := NewOperationError("save", path, err)
		e.log.Error("%v", opErr)
		e.setMessage(opErr.Error())
		return
	}
	e.buf.ClearModified()
	e.lastSave = time.Now()
	e.setMessage("saved " + filepath.Base(path))
	e.log.Info("saved %s", path)
	e.rewatch()

	if err := config.SaveState(".", config.State{
		LastFile:    path,
		LastBackend: e.cfg.Backend,
	}); err != nil {
		e.log.Warn("persist state: %v", err)
	}
}

// loadFile replaces the buffer contents with the named file.
func (e *Editor) loadFile(path string) {
	content, err := files.Load(path)
	if err != nil {
		opErr := NewOperationError("load", path, err)
		e.log.Error("%v", opErr)
		e.setMessage(opErr.Error())
		return
	}
	e.buf = buffer.NewFromString(content, buffer.WithPath(path))
	e.cur = cursor.DocStart()
	e.sel = nil
	e.mode = mode.Normal
	e.undo.Clear()
	e.hl.SetLanguageFromPath(path)
	e.hl.Clear()
	e.rewatch()
	e.chat.Attach(path, content)
	e.setMessage("opened " + filepath.Base(path))
	e.log.Info("opened %s", path)
}

// newBuffer starts an empty unnamed buffer.
func (e *Editor) newBuffer() {
	e.buf = buffer.New()
	e.cur = cursor.DocStart()
	e.sel = nil
	e.mode = mode.Normal
	e.undo.Clear()
	e.hl.SetLanguageFromPath("")
	e.hl.Clear()
	e.rewatch()
}

// submitToAssistant sends the whole buffer as the question. The chat
// context contributes attachments and prior turns to the prompt.
func (e *Editor) submitToAssistant() {
	question := e.buf.Text()
	system := e.cfg.SystemPrompt
	if system == "" {
		system = chat.DefaultSystemPrompt
	}

	if strings.TrimSpace(question) == "" {
		// Let the coordinator set its empty-input error state.
		e.coord.Submit(context.Background(), ai.NewRequest(e.cfg.Model, system, ""))
		return
	}

	req := ai.NewRequest(e.cfg.Model, system, e.chat.BuildPrompt(question))
	if e.coord.Submit(context.Background(), req) {
		e.chat.Record(chat.RoleUser, question)
		e.log.Info("assistant request %s submitted", req.ID)
	} else {
		e.log.Warn("assistant request rejected, one already in flight")
	}
}

// openLoadPicker lists the picker directory and opens the picker.
func (e *Editor) openLoadPicker() {
	fileNames, dirNames, err := files.List(e.pickerDir)
	if err != nil {
		opErr := NewOperationError("list", e.pickerDir, err)
		e.log.Error("%v", opErr)
		e.setMessage(opErr.Error())
		return
	}

	entries := make([]string, 0, 1+len(dirNames)+len(fileNames))
	entries = append(entries, files.ParentDir)
	for _, d := range dirNames {
		entries = append(entries, d+"/")
	}
	entries = append(entries, fileNames...)

	e.picker.SetEntries(entries)
	e.menu = mode.MenuPickLoad
}

func (e *Editor) openSavePrompt() {
	e.saveInput.Reset()
	e.menu = mode.MenuPickSave
}

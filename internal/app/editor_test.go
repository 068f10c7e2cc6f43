package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/empty-buffer/rusty-ai/internal/ai"
	"github.com/empty-buffer/rusty-ai/internal/chat"
	"github.com/empty-buffer/rusty-ai/internal/clipboard"
	"github.com/empty-buffer/rusty-ai/internal/config"
	"github.com/empty-buffer/rusty-ai/internal/input/mode"
	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Model = "test-model"
	return cfg
}

// fakeClient answers immediately unless release is set.
type fakeClient struct {
	reply   string
	err     error
	release chan struct{}
}

func (f *fakeClient) Send(ctx context.Context, req ai.Request) (string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func newTestEditor(t *testing.T, client ai.Client) *Editor {
	t.Helper()
	t.Chdir(t.TempDir())

	nb := backend.NewNullBackend(60, 20)
	if err := nb.Init(); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	if client == nil {
		client = &fakeClient{reply: "ok"}
	}
	return NewEditor(cfg, client, nb, NullLogger)
}

func key(r rune) backend.Event {
	return backend.RuneEvent(r)
}

func typeKeys(t *testing.T, e *Editor, keys string) {
	t.Helper()
	for _, r := range keys {
		if err := e.HandleEvent(key(r)); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
}

func TestInsertSeedsNewlineOnEmptyDoc(t *testing.T) {
	e := newTestEditor(t, nil)
	if e.Buffer().LenChars() != 0 {
		t.Fatalf("fresh editor has %d chars", e.Buffer().LenChars())
	}

	typeKeys(t, e, "i")
	if e.Mode() != mode.Insert {
		t.Fatalf("mode = %v, want Insert", e.Mode())
	}
	if e.Buffer().Text() != "\n" {
		t.Errorf("buffer = %q, want seeded newline", e.Buffer().Text())
	}

	typeKeys(t, e, "hi")
	if e.Buffer().Text() != "hi\n" {
		t.Errorf("buffer = %q, want %q", e.Buffer().Text(), "hi\n")
	}
}

func TestStartupBufferReadsHistoryFile(t *testing.T) {
	t.Chdir(t.TempDir())
	hist := chat.NewHistory(".")
	if err := os.MkdirAll(hist.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hist.DefaultPath(), []byte("past conversations\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Today's conversation file must not leak into the startup buffer.
	if err := os.WriteFile(hist.DailyPath(), []byte("today's log\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	nb := backend.NewNullBackend(60, 20)
	if err := nb.Init(); err != nil {
		t.Fatal(err)
	}
	e := NewEditor(testConfig(), &fakeClient{reply: "ok"}, nb, NullLogger)

	if got := e.Buffer().Text(); got != "past conversations\n" {
		t.Errorf("startup buffer = %q, want %q", got, "past conversations\n")
	}
	if got := e.Buffer().Path(); got != hist.DefaultPath() {
		t.Errorf("startup path = %q, want %q", got, hist.DefaultPath())
	}
}

func TestEscapeReturnsToNormal(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "iab")

	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	if e.Mode() != mode.Normal {
		t.Errorf("mode = %v, want Normal", e.Mode())
	}
	// h j k l are text again in insert, movement in normal.
	typeKeys(t, e, "h")
	if strings.Contains(e.Buffer().Text(), "h") {
		t.Error("h inserted text while in normal mode")
	}
}

func TestQuitKeys(t *testing.T) {
	e := newTestEditor(t, nil)
	if err := e.HandleEvent(key('q')); err != ErrQuit {
		t.Errorf("q returned %v, want ErrQuit", err)
	}

	// Ctrl+Q quits even inside insert mode.
	e = newTestEditor(t, nil)
	typeKeys(t, e, "i")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyCtrlQ)); err != ErrQuit {
		t.Errorf("Ctrl+Q returned %v, want ErrQuit", err)
	}
}

func TestMenuConsumesOneKeystroke(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "iabc\ndef")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	typeKeys(t, e, "g")
	if e.Menu() != mode.MenuGoTo {
		t.Fatalf("menu = %v, want MenuGoTo", e.Menu())
	}

	typeKeys(t, e, "g")
	if e.Menu() != mode.MenuInactive {
		t.Errorf("menu = %v after command, want MenuInactive", e.Menu())
	}
	if e.Cursor().Row != 0 || e.Cursor().Col != 0 {
		t.Errorf("cursor = %v, want doc start", e.Cursor())
	}

	// An unbound key cancels the menu without side effects.
	typeKeys(t, e, "gx")
	if e.Menu() != mode.MenuInactive {
		t.Errorf("menu = %v after unbound key, want MenuInactive", e.Menu())
	}
}

func TestGoToEnd(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "iabc\ndef")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, e, "gg")
	typeKeys(t, e, "ge")
	if e.Cursor().Row == 0 && e.Cursor().Col == 0 {
		t.Errorf("cursor = %v, want doc end", e.Cursor())
	}
}

func TestSelectionDelete(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "ihello")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, e, "gg")

	// Select "hel" and delete it.
	typeKeys(t, e, "vllld")
	if got := e.Buffer().Text(); got != "lo\n" {
		t.Errorf("buffer = %q, want %q", got, "lo\n")
	}
	if e.Mode() != mode.Normal {
		t.Errorf("mode = %v after delete, want Normal", e.Mode())
	}
}

func TestYankEmptySelectionShowsMessage(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "ihello")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	// A yank right after entering select mode has nothing to copy.
	typeKeys(t, e, "vy")
	if e.Mode() != mode.Normal {
		t.Errorf("mode = %v after empty yank, want Normal", e.Mode())
	}
	if e.sel != nil {
		t.Error("selection still active after empty yank")
	}
	if got := e.Message(); got != clipboard.ErrNoSelection.Error() {
		t.Errorf("message = %q, want %q", got, clipboard.ErrNoSelection.Error())
	}
}

func TestLineSelectionDelete(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "iabc\ndef\nghi")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, e, "gg")
	typeKeys(t, e, "j") // line 1

	typeKeys(t, e, "Vd")
	if got := e.Buffer().Text(); got != "abc\nghi\n" {
		t.Errorf("buffer = %q, want %q", got, "abc\nghi\n")
	}
}

func TestSaveAndReload(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "inote text")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	typeKeys(t, e, "s")
	if e.Buffer().Modified() {
		t.Error("buffer still modified after save")
	}

	data, err := os.ReadFile(e.Buffer().Path())
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !strings.Contains(string(data), "note text") {
		t.Errorf("saved file = %q", data)
	}
}

func TestSaveAsThroughPrompt(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "icontent")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	// File menu, save-as, type a name, confirm.
	typeKeys(t, e, " s")
	if e.Menu() != mode.MenuPickSave {
		t.Fatalf("menu = %v, want MenuPickSave", e.Menu())
	}
	typeKeys(t, e, "out.md")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}

	if e.Menu() != mode.MenuInactive {
		t.Errorf("menu = %v after confirm", e.Menu())
	}
	if filepath.Base(e.Buffer().Path()) != "out.md" {
		t.Errorf("path = %q", e.Buffer().Path())
	}
	if _, err := os.Stat(e.Buffer().Path()); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestLoadPickerNavigatesAndLoads(t *testing.T) {
	e := newTestEditor(t, nil)
	if err := os.WriteFile("target.md", []byte("picked content"), 0o644); err != nil {
		t.Fatal(err)
	}

	typeKeys(t, e, " l")
	if e.Menu() != mode.MenuPickLoad {
		t.Fatalf("menu = %v, want MenuPickLoad", e.Menu())
	}

	// Walk down until target.md is selected, then confirm.
	for i := 0; i < 20 && e.picker.Current() != "target.md"; i++ {
		typeKeys(t, e, "j")
	}
	if e.picker.Current() != "target.md" {
		t.Fatalf("picker never reached target.md, at %q", e.picker.Current())
	}
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}

	if e.Menu() != mode.MenuInactive {
		t.Errorf("menu = %v after load", e.Menu())
	}
	if got := e.Buffer().Text(); !strings.Contains(got, "picked content") {
		t.Errorf("buffer = %q", got)
	}
}

func TestPickerEscapeKeepsBuffer(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "ikeep me")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	typeKeys(t, e, " l")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	if e.Menu() != mode.MenuInactive {
		t.Errorf("menu = %v after escape", e.Menu())
	}
	if !strings.Contains(e.Buffer().Text(), "keep me") {
		t.Error("escape from picker lost buffer contents")
	}
}

func TestAssistantReplyAppendsAtEnd(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{reply: "the answer", release: release}
	e := newTestEditor(t, client)

	typeKeys(t, e, "iquestion?")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, e, `"l`)

	// Keep editing while the request is in flight.
	typeKeys(t, e, "ge")
	typeKeys(t, e, "i more")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for {
		e.Tick(time.Now())
		if strings.Contains(e.Buffer().Text(), "the answer") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("assistant reply never appended")
		}
		time.Sleep(time.Millisecond)
	}

	text := e.Buffer().Text()
	if !strings.HasSuffix(text, "\n\nAssistant\n the answer") {
		t.Errorf("reply not appended at end: %q", text)
	}
	if !strings.Contains(text, "more") {
		t.Error("in-flight edits were clobbered")
	}

	// Cursor follows the appended reply.
	snap := e.Buffer().Snapshot()
	if e.Cursor().CharOffset(snap) != snap.LenChars() {
		t.Errorf("cursor = %v, want doc end", e.Cursor())
	}
}

func TestEmptySubmitSetsErrorState(t *testing.T) {
	e := newTestEditor(t, nil)

	typeKeys(t, e, `"l`)
	state, msg := e.coord.State()
	if state != ai.StateError {
		t.Fatalf("state = %v, want StateError", state)
	}
	if msg != ai.ErrEmptyInput {
		t.Errorf("msg = %q", msg)
	}
}

func TestTickExpiresMessage(t *testing.T) {
	e := newTestEditor(t, nil)
	e.setMessage("hello")

	e.Tick(time.Now())
	if e.Message() == "" {
		t.Fatal("message expired immediately")
	}
	e.Tick(time.Now().Add(messageTTL + time.Second))
	if e.Message() != "" {
		t.Errorf("message = %q after ttl", e.Message())
	}
}

func TestUndoRedoKeys(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "ihello")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}

	// Typed run undoes as one step.
	typeKeys(t, e, "u")
	if got := e.Buffer().Text(); got != "\n" {
		t.Errorf("after undo text = %q, want seeded newline only", got)
	}

	typeKeys(t, e, "U")
	if got := e.Buffer().Text(); got != "hello\n" {
		t.Errorf("after redo text = %q", got)
	}
}

func TestUndoDeleteRestoresSelection(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "iabcdef")
	if err := e.HandleEvent(backend.KeyEvent(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, e, "gg")
	typeKeys(t, e, "vlld") // delete "ab"
	if got := e.Buffer().Text(); got != "cdef\n" {
		t.Fatalf("after delete text = %q", got)
	}

	typeKeys(t, e, "u")
	if got := e.Buffer().Text(); got != "abcdef\n" {
		t.Errorf("after undo text = %q", got)
	}
}

func TestHelpToggle(t *testing.T) {
	e := newTestEditor(t, nil)
	typeKeys(t, e, "?")
	if !e.showHelp {
		t.Error("help not shown")
	}
	typeKeys(t, e, "?")
	if e.showHelp {
		t.Error("help not hidden")
	}
}

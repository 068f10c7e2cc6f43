package mode

import "testing"

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Normal, "NORMAL"},
		{Insert, "INSERT"},
		{Select, "SELECT"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestMenuStateProperties(t *testing.T) {
	if MenuInactive.Active() {
		t.Error("MenuInactive should not be active")
	}
	for _, m := range []MenuState{MenuGoTo, MenuFile, MenuAI, MenuPickLoad, MenuPickSave} {
		if !m.Active() {
			t.Errorf("%v should be active", m)
		}
	}

	for _, m := range []MenuState{MenuGoTo, MenuFile, MenuAI} {
		if m.IsPicker() {
			t.Errorf("%v should not be a picker", m)
		}
	}
	for _, m := range []MenuState{MenuPickLoad, MenuPickSave} {
		if !m.IsPicker() {
			t.Errorf("%v should be a picker", m)
		}
	}
}

func TestLoadPickerClamping(t *testing.T) {
	var p LoadPicker
	p.SetEntries([]string{"a", "b", "c"})

	// Up at the top stays put, never wraps.
	p.MoveUp()
	if p.Selected() != 0 {
		t.Errorf("Selected = %d, want 0", p.Selected())
	}

	p.MoveDown()
	p.MoveDown()
	if p.Current() != "c" {
		t.Errorf("Current = %q, want c", p.Current())
	}

	// Down at the bottom stays put.
	p.MoveDown()
	if p.Selected() != 2 {
		t.Errorf("Selected = %d, want 2", p.Selected())
	}
}

func TestLoadPickerEmpty(t *testing.T) {
	var p LoadPicker
	p.MoveDown()
	p.MoveUp()
	if p.Current() != "" {
		t.Errorf("Current on empty = %q", p.Current())
	}
}

func TestLoadPickerSetEntriesResetsSelection(t *testing.T) {
	var p LoadPicker
	p.SetEntries([]string{"a", "b"})
	p.MoveDown()
	p.SetEntries([]string{"x", "y", "z"})
	if p.Selected() != 0 {
		t.Errorf("Selected after SetEntries = %d, want 0", p.Selected())
	}
}

func TestSaveInputEditing(t *testing.T) {
	var s SaveInput

	for _, ch := range "notes.md" {
		s.Insert(ch)
	}
	if s.Text() != "notes.md" {
		t.Fatalf("Text = %q", s.Text())
	}

	// Move into the name and edit.
	for i := 0; i < 3; i++ {
		s.MoveLeft()
	}
	s.Backspace()
	if s.Text() != "note.md" {
		t.Errorf("after backspace Text = %q, want note.md", s.Text())
	}

	s.Insert('s')
	s.Insert('2')
	if s.Text() != "notes2.md" {
		t.Errorf("after insert Text = %q, want notes2.md", s.Text())
	}

	s.Delete()
	if s.Text() != "notes2md" {
		t.Errorf("after delete Text = %q, want notes2md", s.Text())
	}
}

func TestSaveInputCursorBounds(t *testing.T) {
	var s SaveInput
	s.MoveLeft()
	s.Backspace()
	s.Delete()
	if s.Cursor() != 0 || s.Text() != "" {
		t.Errorf("empty input mutated: cursor %d text %q", s.Cursor(), s.Text())
	}

	s.Insert('a')
	s.MoveRight()
	if s.Cursor() != 1 {
		t.Errorf("cursor past end: %d", s.Cursor())
	}
}

func TestSaveInputReset(t *testing.T) {
	var s SaveInput
	s.Insert('x')
	s.Reset()
	if s.Text() != "" || s.Cursor() != 0 {
		t.Error("Reset should clear text and cursor")
	}
}

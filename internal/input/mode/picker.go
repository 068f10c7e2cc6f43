package mode

// LoadPicker is the file picker's selection state: an index over a
// directory listing, clamped to the list bounds, never wrapping.
type LoadPicker struct {
	entries  []string
	selected int
}

// SetEntries replaces the listing and resets the selection.
func (p *LoadPicker) SetEntries(entries []string) {
	p.entries = entries
	p.selected = 0
}

// Entries returns the current listing.
func (p *LoadPicker) Entries() []string {
	return p.entries
}

// Selected returns the selected index.
func (p *LoadPicker) Selected() int {
	return p.selected
}

// Current returns the selected entry name, or "" for an empty listing.
func (p *LoadPicker) Current() string {
	if p.selected < 0 || p.selected >= len(p.entries) {
		return ""
	}
	return p.entries[p.selected]
}

// MoveUp moves the selection up one entry, stopping at the top.
func (p *LoadPicker) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves the selection down one entry, stopping at the bottom.
func (p *LoadPicker) MoveDown() {
	if p.selected < len(p.entries)-1 {
		p.selected++
	}
}

// Reset clears the picker state.
func (p *LoadPicker) Reset() {
	p.entries = nil
	p.selected = 0
}

// SaveInput is the save-as picker's single-line text input with a
// cursor-addressed insert and delete, scoped to one line.
type SaveInput struct {
	text   []rune
	cursor int
}

// Text returns the entered file name.
func (s *SaveInput) Text() string {
	return string(s.text)
}

// Cursor returns the cursor position within the input.
func (s *SaveInput) Cursor() int {
	return s.cursor
}

// Insert inserts a rune at the cursor.
func (s *SaveInput) Insert(ch rune) {
	s.text = append(s.text[:s.cursor], append([]rune{ch}, s.text[s.cursor:]...)...)
	s.cursor++
}

// Backspace deletes the rune before the cursor.
func (s *SaveInput) Backspace() {
	if s.cursor == 0 {
		return
	}
	s.text = append(s.text[:s.cursor-1], s.text[s.cursor:]...)
	s.cursor--
}

// Delete deletes the rune under the cursor.
func (s *SaveInput) Delete() {
	if s.cursor >= len(s.text) {
		return
	}
	s.text = append(s.text[:s.cursor], s.text[s.cursor+1:]...)
}

// MoveLeft moves the cursor one rune left.
func (s *SaveInput) MoveLeft() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveRight moves the cursor one rune right.
func (s *SaveInput) MoveRight() {
	if s.cursor < len(s.text) {
		s.cursor++
	}
}

// Reset clears the input.
func (s *SaveInput) Reset() {
	s.text = nil
	s.cursor = 0
}

// Package buffer provides the thread-safe document model.
//
// A Buffer wraps an immutable rope with the editor-facing state the rope
// itself does not carry: a modified flag, an optional originating file
// path, and a revision counter bumped on every edit. All offsets in the
// public API are char (rune) offsets.
package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/empty-buffer/rusty-ai/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer wraps a rope with editor state. All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	rope     rope.Rope
	revision uint64
	modified bool
	path     string
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithPath sets the buffer's originating file path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{rope: rope.New()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything up front so CRLF pairs split across read
	// boundaries normalize correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Slice returns text in the char range [start, end).
func (b *Buffer) Slice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// LenChars returns the total char count.
func (b *Buffer) LenChars() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LenChars()
}

// LineCount returns the number of lines. Never less than 1.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LenLines()
}

// Line returns the text of a line, without the newline.
func (b *Buffer) Line(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Line(line)
}

// LineLen returns the char length of a line, without the newline.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLen(line)
}

// LineToChar returns the char offset of the start of a line.
func (b *Buffer) LineToChar(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineToChar(line)
}

// CharToLine returns the line index containing a char offset.
func (b *Buffer) CharToLine(idx int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CharToLine(idx)
}

// IsEmpty returns true if the buffer contains no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// Write operations

// Insert inserts text at the given char offset.
// Returns the char offset just past the inserted text.
func (b *Buffer) Insert(idx int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idx < 0 || idx > b.rope.LenChars() {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	b.rope = b.rope.Insert(idx, text)
	b.bumpLocked()

	return idx + len([]rune(text)), nil
}

// InsertChar inserts a single rune at the given char offset.
func (b *Buffer) InsertChar(idx int, ch rune) (int, error) {
	return b.Insert(idx, string(ch))
}

// Remove deletes text in the char range [start, end).
func (b *Buffer) Remove(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.LenChars() {
		return ErrRangeInvalid
	}

	b.rope = b.rope.Remove(start, end)
	b.bumpLocked()
	return nil
}

// Replace replaces the char range [start, end) with new text.
// Returns the char offset just past the replacement.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.rope.LenChars() {
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	b.rope = b.rope.Replace(start, end, text)
	b.bumpLocked()

	return start + len([]rune(text)), nil
}

// Append adds text at the end of the buffer and returns the char offset
// where the text was inserted.
func (b *Buffer) Append(text string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	at := b.rope.LenChars()
	b.rope = b.rope.Insert(at, normalizeLineEndings(text))
	b.bumpLocked()
	return at
}

// SetContent replaces the entire buffer, clearing the modified flag.
// Used for file loads and bulk replacement.
func (b *Buffer) SetContent(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rope = rope.FromString(normalizeLineEndings(s))
	b.revision++
	b.modified = false
}

func (b *Buffer) bumpLocked() {
	b.revision++
	b.modified = true
}

// Buffer state

// Revision returns the current revision counter.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Modified returns true if the buffer has unsaved edits.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// ClearModified marks the buffer as saved.
func (b *Buffer) ClearModified() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = false
}

// Path returns the buffer's originating file path, if any.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// SetPath sets the buffer's originating file path.
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = path
}

// Snapshot returns the current rope. Ropes are immutable, so the result
// is safe to read from any goroutine without further locking.
func (b *Buffer) Snapshot() rope.Rope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope
}

package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is an immutable rope over Unicode text, addressed by char (rune)
// offsets. Operations return new Rope values; the original is never
// modified, which makes snapshots cheap and concurrent reads safe.
//
// Char, byte and line seeks are all O(log n) via per-subtree summaries.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	buf := make([]byte, 64*1024)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}

	return FromString(sb.String()), nil
}

func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := i + MaxChunksPerLeaf
		if end > len(chunks) {
			end = len(chunks)
		}
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	nodes := leaves
	for len(nodes) > 1 {
		var parents []*node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := i + MaxChildren
			if end > len(nodes) {
				end = len(nodes)
			}
			children := make([]*node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}

	return Rope{root: nodes[0]}
}

// LenChars returns the total char (rune) count.
func (r Rope) LenChars() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// LenBytes returns the total UTF-8 byte count.
func (r Rope) LenBytes() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LenLines returns the number of lines (newlines + 1).
// An empty rope has one line.
func (r Rope) LenLines() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.LenChars() == 0
}

// String returns the full text as a string. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.LenBytes())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the char range [start, end).
func (r Rope) Slice(start, end int) string {
	if r.root == nil || start >= end {
		return ""
	}
	return r.root.textInRange(r.CharToByte(start), r.CharToByte(end))
}

// CharAt returns the rune at the given char offset.
// Returns 0 and false if the offset is out of range.
func (r Rope) CharAt(idx int) (rune, bool) {
	if r.root == nil || idx < 0 || idx >= r.LenChars() {
		return 0, false
	}
	s := r.Slice(idx, idx+1)
	ch, _ := utf8.DecodeRuneInString(s)
	return ch, true
}

// CharToByte converts a char offset to a byte offset. Out-of-range
// offsets clamp to the rope bounds.
func (r Rope) CharToByte(idx int) int {
	if r.root == nil {
		return 0
	}
	return r.root.charToByte(idx)
}

// ByteToChar converts a byte offset to a char offset. The offset must
// lie on a rune boundary; out-of-range offsets clamp.
func (r Rope) ByteToChar(b int) int {
	if r.root == nil {
		return 0
	}
	return r.root.byteToChar(b)
}

// Insert inserts text at the given char offset.
// Returns a new rope; the original is unchanged.
func (r Rope) Insert(idx int, text string) Rope {
	if len(text) == 0 {
		return r
	}

	if r.root == nil || r.LenChars() == 0 {
		return FromString(text)
	}

	b := r.CharToByte(idx)
	if b == 0 {
		return FromString(text).Concat(r)
	}
	if b >= r.LenBytes() {
		return r.Concat(FromString(text))
	}

	left, right := r.splitBytes(b)
	return left.Concat(FromString(text)).Concat(right)
}

// InsertChar inserts a single rune at the given char offset.
func (r Rope) InsertChar(idx int, ch rune) Rope {
	return r.Insert(idx, string(ch))
}

// Remove deletes text in the char range [start, end).
// Returns a new rope; the original is unchanged.
func (r Rope) Remove(start, end int) Rope {
	if r.root == nil || start >= end {
		return r
	}

	total := r.LenChars()
	if start >= total {
		return r
	}
	if end > total {
		end = total
	}
	if start < 0 {
		start = 0
	}

	bStart := r.CharToByte(start)
	bEnd := r.CharToByte(end)

	if bStart == 0 && bEnd >= r.LenBytes() {
		return New()
	}
	if bStart == 0 {
		_, right := r.splitBytes(bEnd)
		return right
	}
	if bEnd >= r.LenBytes() {
		left, _ := r.splitBytes(bStart)
		return left
	}

	left, temp := r.splitBytes(bStart)
	_, right := temp.splitBytes(bEnd - bStart)
	return left.Concat(right)
}

// Replace replaces the char range [start, end) with new text.
func (r Rope) Replace(start, end int, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Remove(start, end)
	}
	return r.Remove(start, end).Insert(start, text)
}

// splitBytes splits the rope at a byte offset.
func (r Rope) splitBytes(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.LenBytes() {
		return r, New()
	}

	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Split splits the rope at a char offset, returning left [0, idx) and
// right [idx, end).
func (r Rope) Split(idx int) (Rope, Rope) {
	return r.splitBytes(r.CharToByte(idx))
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.LenBytes() == 0 {
		return other
	}
	if other.root == nil || other.LenBytes() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// lineStartByte returns the byte offset of the start of the given line.
func (r Rope) lineStartByte(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LenLines() {
		return r.LenBytes()
	}
	return r.root.nthNewlineEnd(line)
}

// lineEndByte returns the byte offset of the end of the given line,
// not including the newline.
func (r Rope) lineEndByte(line int) int {
	if r.root == nil {
		return 0
	}

	lineCount := r.LenLines()
	if line >= lineCount-1 {
		return r.LenBytes()
	}
	return r.lineStartByte(line+1) - 1
}

// LineToChar returns the char offset of the start of the given line.
// Line indexes at or past the end return LenChars.
func (r Rope) LineToChar(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LenLines() {
		return r.LenChars()
	}
	return r.ByteToChar(r.lineStartByte(line))
}

// CharToLine returns the line index containing the given char offset.
// Offsets at or past the end map to the last line.
func (r Rope) CharToLine(idx int) int {
	if r.root == nil || idx <= 0 {
		return 0
	}
	if idx >= r.LenChars() {
		return r.LenLines() - 1
	}
	return r.root.newlinesBefore(r.CharToByte(idx))
}

// Line returns the text of the given line, not including the newline.
// Out-of-range lines return the empty string.
func (r Rope) Line(line int) string {
	if r.root == nil || line < 0 || line >= r.LenLines() {
		return ""
	}
	return r.root.textInRange(r.lineStartByte(line), r.lineEndByte(line))
}

// LineLen returns the char length of the given line, excluding the
// newline. Out-of-range lines return 0.
func (r Rope) LineLen(line int) int {
	if r.root == nil || line < 0 || line >= r.LenLines() {
		return 0
	}
	start := r.ByteToChar(r.lineStartByte(line))
	end := r.ByteToChar(r.lineEndByte(line))
	return end - start
}

// Height returns the height of the rope tree, for balance checks in tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.LenBytes() != other.LenBytes() || r.LenChars() != other.LenChars() {
		return false
	}
	return r.String() == other.String()
}

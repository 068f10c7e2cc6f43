package rope

import "unicode/utf8"

// TextSummary holds aggregated metrics for a text span.
// It is the summary type for the rope tree, with monoid semantics:
// Add combines adjacent spans, Zero is the identity.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the Unicode scalar (rune) count. Char offsets are the
	// public addressing unit of the rope.
	Chars int

	// Lines is the number of newline characters.
	Lines int

	// FirstLineChars is the char length of the first line (excluding newline).
	FirstLineChars int

	// LastLineChars is the char length of the last line (excluding newline).
	LastLineChars int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines

	// FlagHasTabs indicates the text contains tab characters.
	FlagHasTabs
)

// Add combines two summaries for adjacent text spans.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags,
	}

	if other.Lines > 0 {
		result.FirstLineChars = s.FirstLineChars
		result.LastLineChars = other.LastLineChars
	} else {
		combined := s.LastLineChars + other.LastLineChars
		if s.Lines == 0 {
			result.FirstLineChars = combined
		} else {
			result.FirstLineChars = s.FirstLineChars
		}
		result.LastLineChars = combined
	}

	if s.Flags&FlagHasNewlines != 0 || other.Flags&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	if s.Flags&FlagHasTabs != 0 || other.Flags&FlagHasTabs != 0 {
		result.Flags |= FlagHasTabs
	}

	return result
}

// Zero returns the identity element for the summary monoid.
func (TextSummary) Zero() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// IsZero returns true if this is the zero/identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	var sum TextSummary
	sum.Bytes = len(s)
	sum.Flags = FlagASCII

	var lineChars int

	for _, r := range s {
		sum.Chars++

		if r > 127 {
			sum.Flags &^= FlagASCII
		}

		if r == '\n' {
			sum.Lines++
			if sum.Lines == 1 {
				sum.FirstLineChars = lineChars
			}
			lineChars = 0
			sum.Flags |= FlagHasNewlines
		} else {
			lineChars++
			if r == '\t' {
				sum.Flags |= FlagHasTabs
			}
		}
	}

	sum.LastLineChars = lineChars
	if sum.Lines == 0 {
		sum.FirstLineChars = lineChars
	}

	return sum
}

// CountLines returns the number of newlines in a string.
func CountLines(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
		}
	}
	return count
}

// FindNthNewline finds the byte position of the nth newline (1-indexed).
// Returns -1 if not found.
func FindNthNewline(s string, n int) int {
	if n <= 0 {
		return -1
	}

	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

// charToByteInString converts a char offset within a string to a byte offset.
// Offsets past the end clamp to len(s).
func charToByteInString(s string, chars int) int {
	if chars <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == chars {
			return i
		}
		count++
	}
	return len(s)
}

// byteToCharInString converts a byte offset within a string to a char offset.
// The offset must lie on a rune boundary; offsets past the end clamp.
func byteToCharInString(s string, b int) int {
	if b <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if i >= b {
			return count
		}
		count++
	}
	return utf8.RuneCountInString(s)
}

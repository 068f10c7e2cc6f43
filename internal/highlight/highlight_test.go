package highlight

import (
	"strings"
	"testing"
)

type sliceDoc []string

func (d sliceDoc) Line(line int) string {
	if line < 0 || line >= len(d) {
		return ""
	}
	return d[line]
}

func (d sliceDoc) LenLines() int { return len(d) }

func (d sliceDoc) LenChars() int {
	n := 0
	for _, l := range d {
		n += len([]rune(l))
	}
	return n + len(d) - 1
}

func docFromString(s string) sliceDoc {
	return sliceDoc(strings.Split(s, "\n"))
}

func TestFindCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []CodeBlock
	}{
		{
			"single block",
			"intro\n```go\nfunc main() {}\n```\noutro",
			[]CodeBlock{{Lang: "go", BodyStart: 2, BodyEnd: 3}},
		},
		{
			"no blocks",
			"just\nplain\ntext",
			nil,
		},
		{
			"unterminated extends to end",
			"```rust\nfn main() {}\nlet x = 1;",
			[]CodeBlock{{Lang: "rust", BodyStart: 1, BodyEnd: 3}},
		},
		{
			"untagged fence skipped",
			"```\nnot scoped\n```",
			nil,
		},
		{
			"two blocks",
			"```go\na\n```\ntext\n```python\nb\n```",
			[]CodeBlock{
				{Lang: "go", BodyStart: 1, BodyEnd: 2},
				{Lang: "python", BodyStart: 5, BodyEnd: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCodeBlocks(strings.Split(tt.text, "\n"))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("block %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCacheInvalidateLine(t *testing.T) {
	c := NewCache(100)
	c.SetLine(3, []Style{StyleKeyword, StyleNormal})

	if !c.IsCached(3) {
		t.Fatal("line 3 should be cached")
	}

	c.InvalidateLine(3)
	if c.IsCached(3) {
		t.Error("line 3 should be dirty")
	}

	// Invalidating an already dirty line is idempotent.
	c.InvalidateLine(3)
	if c.IsCached(3) {
		t.Error("line 3 should still be dirty")
	}

	// Re-caching restores it.
	c.SetLine(3, []Style{StyleKeyword, StyleNormal})
	if !c.IsCached(3) {
		t.Error("line 3 should be cached again")
	}
	if c.StyleAt(3, 0) != StyleKeyword {
		t.Errorf("StyleAt(3, 0) = %v, want keyword", c.StyleAt(3, 0))
	}
}

func TestCacheInvalidateFrom(t *testing.T) {
	c := NewCache(100)
	for i := 0; i < 10; i++ {
		c.SetLine(i, []Style{StyleNormal})
	}

	c.InvalidateFrom(3)

	for i := 0; i < 3; i++ {
		if !c.IsCached(i) {
			t.Errorf("line %d should still be cached", i)
		}
	}
	for i := 3; i < 10; i++ {
		if c.IsCached(i) {
			t.Errorf("line %d should be dirty", i)
		}
	}
}

func TestCacheSyncClearsOnCountMismatch(t *testing.T) {
	c := NewCache(10)
	c.SetLine(0, []Style{StyleString})

	// Matching count keeps the cache.
	c.Sync(10)
	if !c.IsCached(0) {
		t.Fatal("cache cleared despite matching char count")
	}

	// Mismatch clears everything.
	c.Sync(42)
	if c.IsCached(0) {
		t.Error("cache should be cleared on char count mismatch")
	}

	// A recorded count prevents the clear.
	c.SetLine(0, []Style{StyleString})
	c.RecordCharCount(43)
	c.Sync(43)
	if !c.IsCached(0) {
		t.Error("cache cleared despite recorded char count")
	}
}

func TestCacheStyleAtOutOfRange(t *testing.T) {
	c := NewCache(0)
	c.SetLine(0, []Style{StyleKeyword})

	if got := c.StyleAt(0, 5); got != StyleNormal {
		t.Errorf("StyleAt past vector = %v, want normal", got)
	}
	if got := c.StyleAt(7, 0); got != StyleNormal {
		t.Errorf("StyleAt uncached line = %v, want normal", got)
	}
}

func TestProviderHighlightsFencedGo(t *testing.T) {
	doc := docFromString("notes\n```go\nfunc main() {}\n```\ntail")
	p := NewProvider(nil)

	// Line outside the fence is unstyled.
	if got := p.StyleAt(doc, 0, 0); got != StyleNormal {
		t.Errorf("plain line style = %v, want normal", got)
	}

	// "func" keyword inside the fence.
	if got := p.StyleAt(doc, 2, 0); got != StyleKeyword {
		t.Errorf("style of 'func' = %v, want keyword", got)
	}

	// Fence delimiter lines are not part of the body.
	if got := p.StyleAt(doc, 1, 0); got != StyleNormal {
		t.Errorf("fence line style = %v, want normal", got)
	}
}

func TestProviderCacheRoundTrip(t *testing.T) {
	doc := docFromString("```go\nvar x = 1\n```")
	p := NewProvider(nil)

	first := make([]Style, 9)
	for col := 0; col < 9; col++ {
		first[col] = p.StyleAt(doc, 1, col)
	}

	// Cached queries return identical results until invalidated.
	for col := 0; col < 9; col++ {
		if got := p.StyleAt(doc, 1, col); got != first[col] {
			t.Errorf("col %d: cached %v != fresh %v", col, got, first[col])
		}
	}
	if !p.IsCached(1) {
		t.Error("line 1 should be cached after query")
	}
}

func TestProviderSelectiveRecompute(t *testing.T) {
	text := "```go\nvar a = 1\nvar b = 2\nvar c = 3\n```"
	doc := docFromString(text)
	p := NewProvider(nil)

	for line := 0; line < doc.LenLines(); line++ {
		p.StyleAt(doc, line, 0)
	}

	p.InvalidateLine(2, doc.LenChars())

	if p.IsCached(2) {
		t.Error("line 2 should be dirty")
	}
	for _, line := range []int{1, 3} {
		if !p.IsCached(line) {
			t.Errorf("line %d should still be cached", line)
		}
	}

	// Dirty line recomputes on next query.
	if got := p.StyleAt(doc, 2, 0); got != StyleKeyword {
		t.Errorf("recomputed style = %v, want keyword", got)
	}
	if !p.IsCached(2) {
		t.Error("line 2 should be cached after recompute")
	}
}

func TestProviderBulkChangeClearsCache(t *testing.T) {
	doc := docFromString("```go\nvar a = 1\n```")
	p := NewProvider(nil)
	p.StyleAt(doc, 1, 0)

	// Simulate a bulk replace with no invalidation calls.
	bigger := docFromString("```go\nvar a = 1\n```\nmore\nlines")
	p.StyleAt(bigger, 1, 0)

	if got := p.StyleAt(bigger, 1, 0); got != StyleKeyword {
		t.Errorf("style after bulk change = %v, want keyword", got)
	}
}

func TestProviderWholeFileLanguage(t *testing.T) {
	p := NewProvider(nil)
	p.SetLanguageFromPath("main.go")

	doc := docFromString("package main\n\nfunc main() {}")
	if got := p.StyleAt(doc, 2, 0); got != StyleKeyword {
		t.Errorf("style of 'func' = %v, want keyword", got)
	}
}

func TestMappingFallback(t *testing.T) {
	m := DefaultMapping()

	if got := m.StyleFor(0); got != StyleNormal {
		t.Errorf("unknown token = %v, want normal", got)
	}
}

func TestStyleString(t *testing.T) {
	if StyleKeyword.String() != "keyword" {
		t.Errorf("StyleKeyword.String() = %q", StyleKeyword.String())
	}
	if Style(200).String() != "unknown" {
		t.Errorf("out-of-range style = %q", Style(200).String())
	}
}

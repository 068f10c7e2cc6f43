package highlight

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Document is the read-only view of the text the provider highlights.
// rope.Rope satisfies it.
type Document interface {
	Line(line int) string
	LenLines() int
	LenChars() int
}

// Provider computes and caches per-line styles.
//
// For composite documents (markdown with fenced code blocks) only fence
// bodies with a registered language are lexed; everything else renders
// as StyleNormal. When a document language is set from its file name,
// the whole document is treated as one block of that language.
type Provider struct {
	mu      sync.Mutex
	mapping Mapping
	cache   *Cache
	lang    string
}

// NewProvider creates a provider with the given token mapping.
// A nil mapping uses the defaults.
func NewProvider(mapping Mapping) *Provider {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	return &Provider{
		mapping: mapping,
		cache:   NewCache(0),
	}
}

// SetLanguageFromPath selects the document language from a file name.
// Markdown and unrecognized files use composite fence scoping.
func (p *Provider) SetLanguageFromPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lang = ""
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".markdown" || ext == "" {
		return
	}
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		p.lang = lexer.Config().Name
	}
}

// StyleAt returns the style for (line, col), recomputing the line if it
// is missing or dirty. O(1) amortized for cached lines.
func (p *Provider) StyleAt(doc Document, line, col int) Style {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache.Sync(doc.LenChars())
	if !p.cache.IsCached(line) {
		p.computeLine(doc, line)
	}
	return p.cache.StyleAt(line, col)
}

// LineStyles returns the full style vector for a line, recomputing if
// needed. The result is nil for unstyled lines.
func (p *Provider) LineStyles(doc Document, line int) []Style {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache.Sync(doc.LenChars())
	if !p.cache.IsCached(line) {
		p.computeLine(doc, line)
	}
	return p.cache.Line(line)
}

// InvalidateLine marks a single line dirty and records the document's
// char count so the next sync does not trigger a full clear.
func (p *Provider) InvalidateLine(line, charCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.InvalidateLine(line)
	p.cache.RecordCharCount(charCount)
}

// InvalidateFrom marks every line at or after the given line dirty.
func (p *Provider) InvalidateFrom(line, charCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.InvalidateFrom(line)
	p.cache.RecordCharCount(charCount)
}

// Clear drops the whole cache. Used on load and bulk replace.
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Clear()
}

// IsCached reports whether a line has authoritative styles, for tests.
func (p *Provider) IsCached(line int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.IsCached(line)
}

// computeLine recomputes styles for the block containing the line.
// All lines of the block are cached in one pass, so a single lex covers
// every miss inside it.
func (p *Provider) computeLine(doc Document, line int) {
	lineCount := doc.LenLines()
	if line < 0 || line >= lineCount {
		return
	}

	lines := make([]string, lineCount)
	for i := 0; i < lineCount; i++ {
		lines[i] = doc.Line(i)
	}

	var blocks []CodeBlock
	if p.lang != "" {
		blocks = []CodeBlock{{Lang: p.lang, BodyStart: 0, BodyEnd: lineCount}}
	} else {
		blocks = FindCodeBlocks(lines)
	}

	blk, ok := blockAt(blocks, line)
	if !ok {
		p.cache.SetLine(line, nil)
		return
	}

	lexer := lexers.Get(blk.Lang)
	if lexer == nil {
		for l := blk.BodyStart; l < blk.BodyEnd; l++ {
			p.cache.SetLine(l, nil)
		}
		return
	}
	lexer = chroma.Coalesce(lexer)

	body := strings.Join(lines[blk.BodyStart:blk.BodyEnd], "\n")
	iterator, err := lexer.Tokenise(nil, body)
	if err != nil {
		for l := blk.BodyStart; l < blk.BodyEnd; l++ {
			p.cache.SetLine(l, nil)
		}
		return
	}

	cur := blk.BodyStart
	var styles []Style
	for _, tok := range iterator.Tokens() {
		style := p.mapping.StyleFor(tok.Type)
		value := tok.Value
		for {
			before, after, found := strings.Cut(value, "\n")
			for range before {
				styles = append(styles, style)
			}
			if !found {
				break
			}
			if cur < blk.BodyEnd {
				p.cache.SetLine(cur, styles)
			}
			cur++
			styles = nil
			value = after
		}
	}
	if cur < blk.BodyEnd {
		p.cache.SetLine(cur, styles)
		cur++
	}
	for l := cur; l < blk.BodyEnd; l++ {
		p.cache.SetLine(l, nil)
	}
}

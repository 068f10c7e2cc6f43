package highlight

import "strings"

// CodeBlock is a fenced code region inside a composite document.
// BodyStart and BodyEnd are line indexes of the block body, half-open;
// the fence delimiter lines themselves are not part of the body.
type CodeBlock struct {
	Lang      string
	BodyStart int
	BodyEnd   int
}

// Contains returns true if the line falls inside the block body.
func (cb CodeBlock) Contains(line int) bool {
	return line >= cb.BodyStart && line < cb.BodyEnd
}

// FindCodeBlocks scans document lines for ```lang fences.
// Unterminated fences extend to the end of the document. Fences without
// a language tag are skipped, matching the scoped-parsing contract that
// only registered languages are highlighted.
func FindCodeBlocks(lines []string) []CodeBlock {
	var blocks []CodeBlock
	open := -1
	lang := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			continue
		}

		if open < 0 {
			tag := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			if tag != "" {
				open = i
				lang = tag
			}
			continue
		}

		blocks = append(blocks, CodeBlock{
			Lang:      lang,
			BodyStart: open + 1,
			BodyEnd:   i,
		})
		open = -1
		lang = ""
	}

	if open >= 0 {
		blocks = append(blocks, CodeBlock{
			Lang:      lang,
			BodyStart: open + 1,
			BodyEnd:   len(lines),
		})
	}

	return blocks
}

// blockAt returns the code block containing the line, if any.
func blockAt(blocks []CodeBlock, line int) (CodeBlock, bool) {
	for _, b := range blocks {
		if b.Contains(line) {
			return b, true
		}
	}
	return CodeBlock{}, false
}

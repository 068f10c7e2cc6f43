// Package highlight provides the per-line syntax highlight cache.
//
// Lexing is delegated to chroma; token types are folded into a small
// closed Style enum through a configurable mapping table so the renderer
// never sees lexer-specific names.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// Style is the closed set of highlight styles the renderer understands.
type Style uint8

const (
	StyleNormal Style = iota
	StyleKeyword
	StyleFunction
	StyleType
	StyleString
	StyleNumber
	StyleComment
	StyleVariable
	StyleConstant
	StyleOperator
	StyleError
	StyleSelection
)

var styleNames = []string{
	StyleNormal:    "normal",
	StyleKeyword:   "keyword",
	StyleFunction:  "function",
	StyleType:      "type",
	StyleString:    "string",
	StyleNumber:    "number",
	StyleComment:   "comment",
	StyleVariable:  "variable",
	StyleConstant:  "constant",
	StyleOperator:  "operator",
	StyleError:     "error",
	StyleSelection: "selection",
}

// String returns the style's name.
func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// Mapping translates lexer token names to styles. Keys are lowercase
// chroma token type names; lookup falls back from the exact type through
// its sub-category to its category, defaulting to StyleNormal. Keeping
// the table as data means new languages need no code changes.
type Mapping map[string]Style

// DefaultMapping returns the built-in token name table.
func DefaultMapping() Mapping {
	return Mapping{
		"keyword":             StyleKeyword,
		"keyworddeclaration":  StyleKeyword,
		"keywordnamespace":    StyleKeyword,
		"keywordreserved":     StyleKeyword,
		"keywordtype":         StyleType,
		"name":                StyleVariable,
		"namefunction":        StyleFunction,
		"namefunctionmagic":   StyleFunction,
		"namebuiltin":         StyleFunction,
		"nameclass":           StyleType,
		"namenamespace":       StyleType,
		"nameconstant":        StyleConstant,
		"namevariable":        StyleVariable,
		"nameattribute":       StyleVariable,
		"literalstring":       StyleString,
		"literalstringchar":   StyleString,
		"literalstringescape": StyleString,
		"literalnumber":       StyleNumber,
		"literal":             StyleConstant,
		"comment":             StyleComment,
		"commentsingle":       StyleComment,
		"commentmultiline":    StyleComment,
		"operator":            StyleOperator,
		"operatorword":        StyleOperator,
		"punctuation":         StyleOperator,
		"error":               StyleError,
	}
}

// StyleFor resolves a chroma token type through the mapping.
func (m Mapping) StyleFor(t chroma.TokenType) Style {
	if s, ok := m[strings.ToLower(t.String())]; ok {
		return s
	}
	if s, ok := m[strings.ToLower(t.SubCategory().String())]; ok {
		return s
	}
	if s, ok := m[strings.ToLower(t.Category().String())]; ok {
		return s
	}
	return StyleNormal
}

package renderer

import (
	"github.com/empty-buffer/rusty-ai/internal/highlight"
	"github.com/empty-buffer/rusty-ai/internal/renderer/core"
)

// Theme maps highlight styles and chrome elements to concrete cell styles.
type Theme struct {
	Name string

	Syntax    map[highlight.Style]core.Style
	Selection core.Style

	Status  core.Style
	Request core.Style
	Message core.Style
	Gutter  core.Style

	Popup         core.Style
	PopupSelected core.Style
}

// DefaultTheme is the built-in color scheme.
func DefaultTheme() Theme {
	return Theme{
		Name: "default",
		Syntax: map[highlight.Style]core.Style{
			highlight.StyleKeyword:  core.NewStyle(core.ColorMagenta),
			highlight.StyleFunction: core.NewStyle(core.ColorBlue),
			highlight.StyleType:     core.NewStyle(core.ColorCyan),
			highlight.StyleString:   core.NewStyle(core.ColorGreen),
			highlight.StyleNumber:   core.NewStyle(core.ColorYellow),
			highlight.StyleComment:  core.NewStyle(core.ColorDarkGrey),
			highlight.StyleVariable: core.DefaultStyle(),
			highlight.StyleConstant: core.NewStyle(core.ColorYellow),
			highlight.StyleOperator: core.DefaultStyle(),
			highlight.StyleError:    core.NewStyle(core.ColorRed).WithBackground(core.ColorWhite),
		},
		Selection:     core.NewStyle(core.ColorBlack).WithBackground(core.ColorGrey),
		Status:        core.DefaultStyle().Reverse(),
		Request:       core.DefaultStyle(),
		Message:       core.NewStyle(core.ColorYellow),
		Gutter:        core.NewStyle(core.ColorGrey.Darken(0.25)),
		Popup:         core.DefaultStyle(),
		PopupSelected: core.DefaultStyle().Reverse(),
	}
}

// SyntaxStyle resolves a highlight style, falling back to the default
// style for unmapped entries.
func (t Theme) SyntaxStyle(s highlight.Style) core.Style {
	if s == highlight.StyleSelection {
		return t.Selection
	}
	if st, ok := t.Syntax[s]; ok {
		return st
	}
	return core.DefaultStyle()
}

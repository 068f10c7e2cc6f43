// Package core holds the cell, color, and style primitives shared by the
// renderer and its backends.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute is a bitmask of text attributes.
type Attribute uint8

const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Has reports whether the set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a 24-bit color, or the terminal's default when Default is set.
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault is the terminal's own foreground or background.
var ColorDefault = Color{Default: true}

// Terminal palette approximations used by the default theme.
var (
	ColorBlack    = Color{R: 0x00, G: 0x00, B: 0x00}
	ColorWhite    = Color{R: 0xE5, G: 0xE5, B: 0xE5}
	ColorRed      = Color{R: 0xCD, G: 0x3C, B: 0x3C}
	ColorGreen    = Color{R: 0x3C, G: 0xB3, B: 0x71}
	ColorYellow   = Color{R: 0xE5, G: 0xC0, B: 0x7B}
	ColorBlue     = Color{R: 0x61, G: 0xAF, B: 0xEF}
	ColorMagenta  = Color{R: 0xC6, G: 0x78, B: 0xDD}
	ColorCyan     = Color{R: 0x56, G: 0xB6, B: 0xC2}
	ColorGrey     = Color{R: 0x80, G: 0x80, B: 0x80}
	ColorDarkGrey = Color{R: 0x5C, G: 0x63, B: 0x70}
)

// ColorFromRGB builds a true color from components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Blend mixes c toward other by amount in [0, 1] using Lab interpolation,
// which keeps midpoints perceptually even.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	m := a.BlendLab(b, amount).Clamped()
	r, g, bb := m.RGB255()
	return Color{R: r, G: g, B: bb}
}

// Darken blends toward black.
func (c Color) Darken(amount float64) Color {
	return c.Blend(ColorBlack, amount)
}

// Equals reports color equality; all default colors compare equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String formats the color for logs and test failures.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle is the terminal's default foreground on default background.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle builds a style with the given foreground on the default background.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

// WithBackground returns a copy with the background replaced.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithForeground returns a copy with the foreground replaced.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// Bold returns a copy with the bold attribute set.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a copy with the dim attribute set.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Reverse returns a copy with reverse video set.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Equals reports style equality.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// Cell is one terminal cell. Wide characters occupy their own cell plus a
// zero-width continuation cell to their right.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a space in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell builds a cell for r in the given style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell is the placeholder behind a wide character.
func ContinuationCell(style Style) Cell {
	return Cell{Rune: 0, Width: 0, Style: style}
}

// IsContinuation reports whether this cell trails a wide character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals reports cell equality.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Width == other.Width && c.Style.Equals(other.Style)
}

// RuneWidth returns the terminal column width of r.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// Rect is a screen rectangle, half-open on the bottom and right.
type Rect struct {
	Top, Left, Bottom, Right int
}

// RectFromSize builds a rectangle from an origin and dimensions.
func RectFromSize(top, left, height, width int) Rect {
	return Rect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the rectangle width, never negative.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the rectangle height, never negative.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Contains reports whether (row, col) falls inside the rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row < r.Bottom && col >= r.Left && col < r.Right
}

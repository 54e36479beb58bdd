// Package grid implements the Cell and Grid data model: a 2D
// matrix of terminal cells with attributes, a cursor, and wide-character
// placement rules. internal/emulator populates a Grid from the underlying
// midterm.Terminal on every snapshot; layout, render and copymode only ever
// see this package's types.
package grid

import "github.com/mattn/go-runewidth"

// Attr is a bitset of SGR-style cell attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
	AttrStrikethrough
)

// Color represents a cell foreground or background color. Kind selects how
// RGB/Index are interpreted; the zero value is "default terminal color".
type Color struct {
	Kind  ColorKind
	Index uint8 // for ColorIndexed (0-255)
	R, G, B uint8 // for ColorRGB
}

type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Cell is a single grid cell. Width 0 marks a continuation cell following a
// width-2 glyph: such a cell carries no rune of its own.
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Attr  Attr
	Width int // 0, 1, or 2
}

// Blank returns the default empty cell (width 1, space, default colors).
func Blank() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// RuneWidth returns the on-screen column width of r (0, 1, or 2), per East
// Asian Width rules, delegating to mattn/go-runewidth rather than
// hand-rolling a width table.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	w := runewidth.RuneWidth(r)
	if w > 2 {
		w = 2
	}
	return w
}

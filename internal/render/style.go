// Package render implements the frame compositor: it turns
// a window's pane grids plus status/overlay state into the terminal byte
// stream a client needs to update its display. Grounded on
// internal/overlay/render.go (RenderScreen/RenderLine's per-region SGR
// technique, RenderBar's status-row composition) and
// internal/session/client/render.go (the client-side twin), generalized
// from one fixed VT + input bar to an arbitrary pane layout, copy-mode
// overlay, and status bar driven by configurable style strings.
package render

import (
	"strconv"
	"strings"

	"github.com/blackwitch/wtmux/internal/grid"
	"github.com/muesli/termenv"
)

// namedColors maps the terminal color names accepted (besides
// "colourN" and "#RRGGBB") to their ANSI index, following tmux's own
// convention.
var namedColors = map[string]int{
	"black": 0, "red": 1, "green": 2, "yellow": 3, "blue": 4,
	"magenta": 5, "cyan": 6, "white": 7,
	"brightblack": 8, "brightred": 9, "brightgreen": 10, "brightyellow": 11,
	"brightblue": 12, "brightmagenta": 13, "brightcyan": 14, "brightwhite": 15,
	"default": -1,
}

// Style is a parsed pane-border-style/status-style value.
type Style struct {
	Fg, Bg  termenv.Color
	Bold    bool
	Reverse bool
}

// ParseStyle parses a style string like "fg=black,bg=green" or
// "fg=colour202,bold". Unrecognized components are ignored rather than
// failing a render.
func ParseStyle(s string) Style {
	var st Style
	profile := termenv.ANSI256
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "fg="):
			st.Fg = parseColor(profile, strings.TrimPrefix(part, "fg="))
		case strings.HasPrefix(part, "bg="):
			st.Bg = parseColor(profile, strings.TrimPrefix(part, "bg="))
		case part == "bold":
			st.Bold = true
		case part == "reverse":
			st.Reverse = true
		}
	}
	return st
}

func parseColor(profile termenv.Profile, name string) termenv.Color {
	if name == "" || name == "default" {
		return nil
	}
	if strings.HasPrefix(name, "#") {
		return profile.Color(name)
	}
	if strings.HasPrefix(name, "colour") {
		if n, err := strconv.Atoi(strings.TrimPrefix(name, "colour")); err == nil {
			return profile.Color(strconv.Itoa(n))
		}
	}
	if idx, ok := namedColors[name]; ok {
		if idx < 0 {
			return nil
		}
		return profile.Color(strconv.Itoa(idx))
	}
	return nil
}

// SGRPrefix renders st as a "\033[...m" escape sequence, or "" if st has no
// attributes set.
func (st Style) SGRPrefix() string {
	s := termenv.String("")
	if st.Fg != nil {
		s = s.Foreground(st.Fg)
	}
	if st.Bg != nil {
		s = s.Background(st.Bg)
	}
	if st.Bold {
		s = s.Bold()
	}
	if st.Reverse {
		s = s.Reverse()
	}
	// termenv closes every styled string with a reset; drop it so the
	// style stays in effect for the text written after the prefix.
	return strings.TrimSuffix(termenv.ANSI256.String(s.String()).String(), "\033[0m")
}

// cellSGR renders a grid.Cell's color/attribute fields as an SGR sequence,
// the pane-body equivalent of Style.SGRPrefix.
func cellSGR(c grid.Cell) string {
	var b strings.Builder
	b.WriteString("\033[0")
	if c.Attr&grid.AttrBold != 0 {
		b.WriteString(";1")
	}
	if c.Attr&grid.AttrDim != 0 {
		b.WriteString(";2")
	}
	if c.Attr&grid.AttrItalic != 0 {
		b.WriteString(";3")
	}
	if c.Attr&grid.AttrUnderline != 0 {
		b.WriteString(";4")
	}
	if c.Attr&grid.AttrBlink != 0 {
		b.WriteString(";5")
	}
	if c.Attr&grid.AttrReverse != 0 {
		b.WriteString(";7")
	}
	if c.Attr&grid.AttrInvisible != 0 {
		b.WriteString(";8")
	}
	if c.Attr&grid.AttrStrikethrough != 0 {
		b.WriteString(";9")
	}
	writeColorSGR(&b, c.Fg, false)
	writeColorSGR(&b, c.Bg, true)
	b.WriteString("m")
	return b.String()
}

func writeColorSGR(b *strings.Builder, c grid.Color, bg bool) {
	base := 30
	if bg {
		base = 40
	}
	switch c.Kind {
	case grid.ColorIndexed:
		if c.Index < 8 {
			b.WriteString(";")
			b.WriteString(strconv.Itoa(base + int(c.Index)))
		} else if c.Index < 16 {
			b.WriteString(";")
			b.WriteString(strconv.Itoa(base + 60 + int(c.Index) - 8))
		} else {
			b.WriteString(";")
			b.WriteString(strconv.Itoa(base + 8))
			b.WriteString(";5;")
			b.WriteString(strconv.Itoa(int(c.Index)))
		}
	case grid.ColorRGB:
		b.WriteString(";")
		b.WriteString(strconv.Itoa(base + 8))
		b.WriteString(";2;")
		b.WriteString(strconv.Itoa(int(c.R)))
		b.WriteString(";")
		b.WriteString(strconv.Itoa(int(c.G)))
		b.WriteString(";")
		b.WriteString(strconv.Itoa(int(c.B)))
	}
}

package emulator

import (
	"strconv"
	"strings"

	"github.com/blackwitch/wtmux/internal/grid"
)

type cellStyle struct {
	fg, bg grid.Color
	attr   grid.Attr
}

// parseSGR interprets a "\x1b[...m"-style SGR escape sequence (as produced
// by midterm.Format.Render) into a cellStyle. Sequences this doesn't
// recognize are ignored; an empty or reset sequence yields the zero style.
func parseSGR(seq string) cellStyle {
	var s cellStyle
	for _, chunk := range splitSequences(seq) {
		params := strings.Split(chunk, ";")
		for i := 0; i < len(params); i++ {
			n, err := strconv.Atoi(params[i])
			if err != nil {
				continue
			}
			switch {
			case n == 0:
				s = cellStyle{}
			case n == 1:
				s.attr |= grid.AttrBold
			case n == 2:
				s.attr |= grid.AttrDim
			case n == 3:
				s.attr |= grid.AttrItalic
			case n == 4:
				s.attr |= grid.AttrUnderline
			case n == 5 || n == 6:
				s.attr |= grid.AttrBlink
			case n == 7:
				s.attr |= grid.AttrReverse
			case n == 8:
				s.attr |= grid.AttrInvisible
			case n == 9:
				s.attr |= grid.AttrStrikethrough
			case n >= 30 && n <= 37:
				s.fg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 30)}
			case n == 38:
				color, consumed := parseExtendedColor(params[i+1:])
				s.fg = color
				i += consumed
			case n == 39:
				s.fg = grid.Color{}
			case n >= 40 && n <= 47:
				s.bg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 40)}
			case n == 48:
				color, consumed := parseExtendedColor(params[i+1:])
				s.bg = color
				i += consumed
			case n == 49:
				s.bg = grid.Color{}
			case n >= 90 && n <= 97:
				s.fg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 90 + 8)}
			case n >= 100 && n <= 107:
				s.bg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 100 + 8)}
			}
		}
	}
	return s
}

// parseExtendedColor parses the parameters following a 38/48 SGR code:
// either "5;n" (indexed) or "2;r;g;b" (truecolor). It returns how many
// extra parameters it consumed.
func parseExtendedColor(rest []string) (grid.Color, int) {
	if len(rest) == 0 {
		return grid.Color{}, 0
	}
	mode, err := strconv.Atoi(rest[0])
	if err != nil {
		return grid.Color{}, 0
	}
	switch mode {
	case 5:
		if len(rest) < 2 {
			return grid.Color{}, 1
		}
		idx, _ := strconv.Atoi(rest[1])
		return grid.Color{Kind: grid.ColorIndexed, Index: uint8(idx)}, 2
	case 2:
		if len(rest) < 4 {
			return grid.Color{}, len(rest)
		}
		r, _ := strconv.Atoi(rest[1])
		g, _ := strconv.Atoi(rest[2])
		b, _ := strconv.Atoi(rest[3])
		return grid.Color{Kind: grid.ColorRGB, R: uint8(r), G: uint8(g), B: uint8(b)}, 4
	}
	return grid.Color{}, 0
}

// splitSequences extracts the parameter body of each "\x1b[...m" sequence
// found in s, in order.
func splitSequences(s string) []string {
	var out []string
	for {
		start := strings.Index(s, "\x1b[")
		if start < 0 {
			return out
		}
		s = s[start+2:]
		end := strings.IndexByte(s, 'm')
		if end < 0 {
			return out
		}
		out = append(out, s[:end])
		s = s[end+1:]
	}
}

// stripANSI removes CSI/OSC escape sequences from s, used to derive the
// plain-text scrollback line copy-mode search operates on.
func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != 0x1B {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		switch s[i+1] {
		case '[':
			j := i + 2
			for j < len(s) && !(s[j] >= 0x40 && s[j] <= 0x7E) {
				j++
			}
			i = j
		case ']':
			j := i + 2
			for j < len(s) {
				if s[j] == 0x07 {
					break
				}
				if s[j] == 0x1B && j+1 < len(s) && s[j+1] == '\\' {
					j++
					break
				}
				j++
			}
			i = j
		default:
			i++
		}
	}
	return b.String()
}

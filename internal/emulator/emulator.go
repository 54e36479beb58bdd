// Package emulator wraps midterm.Terminal with the pane-facing operations
// a pane needs: feed bytes, resize, snapshot into internal/grid's Cell
// model, and scrollback capture. No other package imports midterm directly;
// layout, render and copymode only ever see *grid.Grid and []HistoryLine.
package emulator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vito/midterm"

	"github.com/blackwitch/wtmux/internal/grid"
)

// HistoryLine is one row retired from the live screen into scrollback.
// Styled carries the original SGR-formatted text for the render
// compositor; Plain is the same line with escape sequences stripped, used
// by copy-mode search.
type HistoryLine struct {
	Styled string
	Plain  string
}

// Emulator owns one midterm.Terminal plus the scrollback ring and OSC
// color-query responder.
type Emulator struct {
	mu sync.Mutex

	vt   *midterm.Terminal
	rows int
	cols int

	history    []HistoryLine
	historyMax int

	oscFg, oscBg string
	ptyIn        io.Writer

	lastOutput time.Time
}

// DefaultScrollbackLines is the default bound on captured scrollback rows
//.
const DefaultScrollbackLines = 2000

// New creates an emulator for a rows×cols screen. ptyIn is the PTY master's
// write side; OSC 10/11 color queries from the child are answered there,
// grounded on virtualterminal.VT.RespondOSCColors.
func New(rows, cols int, ptyIn io.Writer) *Emulator {
	vt := midterm.NewTerminal(rows, cols)
	vt.ForwardResponses = ptyIn
	e := &Emulator{
		vt:         vt,
		rows:       rows,
		cols:       cols,
		historyMax: DefaultScrollbackLines,
		ptyIn:      ptyIn,
	}
	vt.OnScrollback(func(line midterm.Line) {
		e.appendHistory(line.Display())
	})
	return e
}

// SetHistoryLimit changes how many scrollback lines are retained.
func (e *Emulator) SetHistoryLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.historyMax = n
	if len(e.history) > n {
		e.history = e.history[len(e.history)-n:]
	}
}

// SetOSCColors overrides the OSC 10/11 fallback colors.
func (e *Emulator) SetOSCColors(fg, bg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.oscFg, e.oscBg = fg, bg
}

func (e *Emulator) appendHistory(styled string) {
	line := HistoryLine{Styled: styled, Plain: stripANSI(styled)}
	e.history = append(e.history, line)
	if len(e.history) > e.historyMax {
		trim := len(e.history) - e.historyMax
		e.history = e.history[trim:]
	}
}

// Feed writes child PTY output into the terminal, answering any OSC 10/11
// queries it contains.
func (e *Emulator) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.respondOSCColors(data)
	e.lastOutput = time.Now()
	e.vt.Write(data)
}

// respondOSCColors answers OSC 10 (foreground) / OSC 11 (background) color
// queries, falling back to a COLORFGBG-derived palette when no explicit
// color was configured. Grounded on virtualterminal.VT.RespondOSCColors.
func (e *Emulator) respondOSCColors(data []byte) {
	if e.ptyIn == nil {
		return
	}
	fg, bg := e.oscFg, e.oscBg
	if fg == "" || bg == "" {
		fallbackFg, fallbackBg := FallbackOSCPalette(os.Getenv("COLORFGBG"))
		if fg == "" {
			fg = fallbackFg
		}
		if bg == "" {
			bg = fallbackBg
		}
	}
	if bytes.Contains(data, []byte("\033]10;?")) {
		fmt.Fprintf(e.ptyIn, "\033]10;%s\033\\", fg)
	}
	if bytes.Contains(data, []byte("\033]11;?")) {
		fmt.Fprintf(e.ptyIn, "\033]11;%s\033\\", bg)
	}
}

// FallbackOSCPalette derives OSC 10/11 rgb: values from a COLORFGBG
// environment string, defaulting to a dark palette when parsing fails.
func FallbackOSCPalette(colorfgbg string) (fg, bg string) {
	parts := strings.Split(strings.TrimSpace(colorfgbg), ";")
	bgDark := true
	bgField := ""
	if len(parts) >= 2 {
		bgField = strings.TrimSpace(parts[1])
	} else if len(parts) == 1 {
		bgField = strings.TrimSpace(parts[0])
	}
	if bgField != "" {
		if idx, err := strconv.Atoi(bgField); err == nil {
			bgDark = idx < 8
		}
	}
	if bgDark {
		return "rgb:ffff/ffff/ffff", "rgb:0000/0000/0000"
	}
	return "rgb:0000/0000/0000", "rgb:ffff/ffff/ffff"
}

// Resize changes the terminal's dimensions without reflowing scrollback
// content.
func (e *Emulator) Resize(rows, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows, e.cols = rows, cols
	e.vt.Resize(rows, cols)
}

// IsIdle reports whether no output has been fed for at least d.
func (e *Emulator) IsIdle(d time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.lastOutput.IsZero() && time.Since(e.lastOutput) > d
}

// History returns a copy of the captured scrollback lines, oldest first.
func (e *Emulator) History() []HistoryLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]HistoryLine, len(e.history))
	copy(out, e.history)
	return out
}

// Snapshot renders the live screen into a grid.Grid, translating midterm's
// per-region SGR formatting into grid.Cell attributes/colors and enforcing
// the wide-glyph placement invariant
func (e *Emulator) Snapshot() *grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := grid.New(e.rows, e.cols)
	g.Cursor = grid.Cursor{Row: e.vt.Cursor.Y, Col: e.vt.Cursor.X, Visible: true}

	for row := 0; row < e.rows && row < len(e.vt.Content); row++ {
		line := e.vt.Content[row]
		col := 0
		for region := range e.vt.Format.Regions(row) {
			style := parseSGR(region.F.Render())
			end := col + region.Size
			for ; col < end && col < e.cols; col++ {
				r := rune(' ')
				if col < len(line) {
					r = line[col]
				}
				g.Set(row, col, grid.Cell{Rune: r, Width: 1, Fg: style.fg, Bg: style.bg, Attr: style.attr})
			}
		}
		fixWideGlyphs(g, row, e.cols)
	}
	return g
}

// fixWideGlyphs re-pairs a naively one-cell-per-column row so that every
// width-2 glyph is immediately followed by a width-0 continuation cell, per
// wide-glyph invariant.
func fixWideGlyphs(g *grid.Grid, row, cols int) {
	col := 0
	for col < cols {
		c := g.At(row, col)
		w := grid.RuneWidth(c.Rune)
		if w == 2 && col+1 < cols {
			c.Width = 2
			g.Set(row, col, c)
			g.Set(row, col+1, grid.Cell{Width: 0, Fg: c.Fg, Bg: c.Bg, Attr: c.Attr})
			col += 2
			continue
		}
		if w == 2 {
			// No room for the continuation cell at the line end: blank it.
			g.Set(row, col, grid.Blank())
		}
		col++
	}
}

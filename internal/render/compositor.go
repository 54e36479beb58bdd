package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwitch/wtmux/internal/copymode"
	"github.com/blackwitch/wtmux/internal/grid"
	"github.com/blackwitch/wtmux/internal/layout"
	"github.com/blackwitch/wtmux/internal/mux"
)

// Options carries the subset of command.Options the compositor needs.
// Kept separate from command.Options so render has no dependency on the
// command package (command already depends on mux/keybind/paste; render
// sits beside it, not above it).
type Options struct {
	Status                bool
	StatusLeft             string
	StatusRight            string
	StatusStyle            string
	PaneBorderStyle        string
	PaneActiveBorderStyle  string
}

// Overlay describes the command-prompt/message overlay state for one
// client. At most one of Prompt/Message is shown;
// Prompt takes priority.
type Overlay struct {
	Prompt  string // non-empty: command-prompt buffer, shown as ": <buffer>"
	Message string // non-empty: last display-message/error text
}

// Frame produces the full reference-correct terminal byte stream for one
// client's view of win, filling area (including the status row, if any).
// Grounded on overlay/render.go's RenderScreen (DECSC-less full redraw,
// per-row \033[K clear, region-based SGR runs) and RenderBar (status-row
// composition), generalized from a single VT + input bar to a pane tree.
func Frame(win *mux.Window, area layout.Rect, sessionName string, opts Options, ov Overlay, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("\033[?25l")

	paneArea := area
	if opts.Status && paneArea.H > 0 {
		paneArea.H--
	}

	rects := win.Rects(paneArea)
	for id, rect := range rects {
		pane, ok := win.Panes[id]
		if !ok {
			continue
		}
		renderPane(&b, pane, rect, id == win.ActivePaneID, opts)
	}
	drawBorders(&b, rects, paneArea, win.ActivePaneID, opts)

	if opts.Status && area.H > 0 {
		renderStatusRow(&b, win, sessionName, opts, ov, area.Y+area.H-1, area.W)
	}

	placeCursor(&b, win, rects)
	return []byte(b.String())
}

func renderPane(b *strings.Builder, p *mux.Pane, rect layout.Rect, active bool, opts Options) {
	if p.InCopyMode() {
		renderCopyModePane(b, p, rect)
		return
	}
	if p.Emu == nil {
		return
	}
	g := p.Emu.Snapshot()
	for row := 0; row < rect.H; row++ {
		fmt.Fprintf(b, "\033[%d;%dH", rect.Y+row+1, rect.X+1)
		if row >= g.Rows {
			b.WriteString(strings.Repeat(" ", rect.W))
			continue
		}
		writeGridRow(b, g.Row(row), rect.W)
	}
}

func writeGridRow(b *strings.Builder, row []grid.Cell, width int) {
	var lastSGR string
	for col := 0; col < width; col++ {
		var c grid.Cell
		if col < len(row) {
			c = row[col]
		} else {
			c = grid.Blank()
		}
		if c.Width == 0 {
			continue
		}
		sgr := cellSGR(c)
		if sgr != lastSGR {
			b.WriteString(sgr)
			lastSGR = sgr
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	b.WriteString("\033[0m")
}

func renderCopyModePane(b *strings.Builder, p *mux.Pane, rect layout.Rect) {
	cm := p.CopyMode
	lines, top := cm.Viewport(rect.H)
	start, end, hasSel := cm.Selection()
	for row := 0; row < rect.H; row++ {
		fmt.Fprintf(b, "\033[%d;%dH", rect.Y+row+1, rect.X+1)
		var text string
		if row < len(lines) {
			text = lines[row]
		}
		virtualRow := top + row
		runes := []rune(text)
		for col := 0; col < rect.W; col++ {
			reverse := hasSel && inSelection(virtualRow, col, start, end, cm)
			if reverse {
				b.WriteString("\033[7m")
			}
			if col < len(runes) {
				b.WriteRune(runes[col])
			} else {
				b.WriteByte(' ')
			}
			if reverse {
				b.WriteString("\033[0m")
			}
		}
	}
	n, m := cm.Progress()
	label := fmt.Sprintf("[copy] %d/%d", n, m)
	if len(label) < rect.W {
		fmt.Fprintf(b, "\033[%d;%dH\033[7m%s\033[0m", rect.Y+1, rect.X+rect.W-len(label)+1, label)
	}
}

func inSelection(row, col int, start, end copymode.Position, cm *copymode.State) bool {
	if row < start.Row || row > end.Row {
		return false
	}
	if cm.Mode == copymode.Line {
		return true
	}
	if row == start.Row && col < start.Col {
		return false
	}
	if row == end.Row && col > end.Col {
		return false
	}
	return true
}

// drawBorders fills every cell of area not covered by a pane rectangle
// with a line-drawing glyph, styled with pane-border-style or
// pane-active-border-style depending on adjacency to the active pane.
func drawBorders(b *strings.Builder, rects map[int]layout.Rect, area layout.Rect, activeID int, opts Options) {
	activeRect, hasActive := rects[activeID]
	borderStyle := ParseStyle(opts.PaneBorderStyle).SGRPrefix()
	activeStyle := ParseStyle(opts.PaneActiveBorderStyle).SGRPrefix()

	covered := func(x, y int) bool {
		for _, r := range rects {
			if x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H {
				return true
			}
		}
		return false
	}

	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			if covered(x, y) {
				continue
			}
			vertical := covered(x, y-1) || covered(x, y+1)
			horizontal := covered(x-1, y) || covered(x+1, y)
			glyph := "┼"
			switch {
			case vertical && !horizontal:
				glyph = "│"
			case horizontal && !vertical:
				glyph = "─"
			}
			style := borderStyle
			if hasActive && adjacentTo(x, y, activeRect) {
				style = activeStyle
			}
			fmt.Fprintf(b, "\033[%d;%dH%s%s\033[0m", y+1, x+1, style, glyph)
		}
	}
}

func adjacentTo(x, y int, r layout.Rect) bool {
	return x >= r.X-1 && x <= r.X+r.W && y >= r.Y-1 && y <= r.Y+r.H
}

func renderStatusRow(b *strings.Builder, win *mux.Window, sessionName string, opts Options, ov Overlay, row, width int) {
	fmt.Fprintf(b, "\033[%d;1H", row+1)
	style := ParseStyle(opts.StatusStyle).SGRPrefix()

	if ov.Prompt != "" {
		line := ": " + ov.Prompt
		writeStatusLine(b, line, width, "")
		return
	}
	if ov.Message != "" {
		writeStatusLine(b, ov.Message, width, "\033[7m")
		return
	}

	left := FormatString(opts.StatusLeft, sessionName, time.Now())
	right := FormatString(opts.StatusRight, sessionName, time.Now())
	windows := windowList(win)
	line := left + windows + right
	writeStatusLine(b, line, width, style)
}

func windowList(win *mux.Window) string {
	return fmt.Sprintf("%d:%s", win.Index, win.Name)
}

func writeStatusLine(b *strings.Builder, text string, width int, style string) {
	if style != "" {
		b.WriteString(style)
	}
	if len(text) > width {
		text = text[:width]
	}
	b.WriteString(text)
	if pad := width - len(text); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if style != "" {
		b.WriteString("\033[0m")
	}
}

func placeCursor(b *strings.Builder, win *mux.Window, rects map[int]layout.Rect) {
	rect, ok := rects[win.ActivePaneID]
	if !ok {
		return
	}
	pane, ok := win.Panes[win.ActivePaneID]
	if !ok || pane.Emu == nil {
		return
	}
	if pane.InCopyMode() {
		b.WriteString("\033[?25l")
		return
	}
	g := pane.Emu.Snapshot()
	if !g.Cursor.Visible {
		b.WriteString("\033[?25l")
		return
	}
	fmt.Fprintf(b, "\033[%d;%dH\033[?25h", rect.Y+g.Cursor.Row+1, rect.X+g.Cursor.Col+1)
}

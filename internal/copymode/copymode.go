// Package copymode implements the per-pane vi-subset modal copy mode: a
// cursor over a virtual buffer that concatenates scrollback and the live
// screen, an optional selection, and literal-text search.
// It operates purely on internal/grid.Grid snapshots and
// internal/emulator.HistoryLine slices; it never touches midterm.
package copymode

import (
	"strings"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/grid"
)

// SelectionMode is the unit a selection extends by.
type SelectionMode int

const (
	Character SelectionMode = iota
	Line
)

// Direction is a search direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Position is a (row, col) over the virtual buffer: row 0 is the oldest
// scrollback line, row len(history)-1+live-rows is the bottom of the live
// screen.
type Position struct {
	Row, Col int
}

// State is one pane's copy-mode session. Entering copy mode freezes the
// client's view at the pane's current content: the pane
// continues to receive bytes and update scrollback/live grid underneath,
// but the viewport stays anchored to Cursor until the caller re-derives it.
type State struct {
	Cursor    Position
	Anchor    *Position
	Mode      SelectionMode
	WrapSearch bool

	SearchPattern   string
	SearchDirection Direction
	LastMatch       *Position

	history []emulator.HistoryLine
	live    *grid.Grid
}

// New starts a copy-mode session anchored at the given history/live
// snapshot, with the cursor initially on the live-screen row and column
// the pane's cursor was on, so the viewport opens anchored to the
// cursor's row.
func New(history []emulator.HistoryLine, live *grid.Grid, wrapSearch bool) *State {
	s := &State{history: history, live: live, WrapSearch: wrapSearch}
	s.Cursor = Position{Row: s.totalRows() - live.Rows + live.Cursor.Row, Col: live.Cursor.Col}
	if s.Cursor.Row < 0 {
		s.Cursor.Row = 0
	}
	return s
}

func (s *State) totalRows() int {
	return len(s.history) + s.live.Rows
}

// lineText returns the plain text of virtual row `row`, taken from the
// history lines or, past them, from the live grid.
func (s *State) lineText(row int) string {
	if row < len(s.history) {
		return s.history[row].Plain
	}
	liveRow := row - len(s.history)
	if liveRow < 0 || liveRow >= s.live.Rows {
		return ""
	}
	var b strings.Builder
	for _, c := range s.live.Row(liveRow) {
		if c.Width == 0 {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

func (s *State) lineLen(row int) int {
	return len([]rune(s.lineText(row)))
}

func (s *State) clampCursor() {
	total := s.totalRows()
	if s.Cursor.Row < 0 {
		s.Cursor.Row = 0
	}
	if s.Cursor.Row >= total {
		s.Cursor.Row = total - 1
	}
	maxCol := s.lineLen(s.Cursor.Row)
	if maxCol > 0 {
		maxCol--
	}
	if s.Cursor.Col > maxCol {
		s.Cursor.Col = maxCol
	}
	if s.Cursor.Col < 0 {
		s.Cursor.Col = 0
	}
}

// MoveLeft/MoveRight/MoveUp/MoveDown implement the h/l/k/j motions.
func (s *State) MoveLeft()  { s.Cursor.Col--; s.clampCursor() }
func (s *State) MoveRight() { s.Cursor.Col++; s.clampCursor() }
func (s *State) MoveUp()    { s.Cursor.Row--; s.clampCursor() }
func (s *State) MoveDown()  { s.Cursor.Row++; s.clampCursor() }

// MoveLineStart/MoveLineEnd implement 0/$.
func (s *State) MoveLineStart() { s.Cursor.Col = 0 }
func (s *State) MoveLineEnd() {
	s.Cursor.Col = s.lineLen(s.Cursor.Row)
	if s.Cursor.Col > 0 {
		s.Cursor.Col--
	}
}

// MoveBufferStart/MoveBufferEnd implement g/G.
func (s *State) MoveBufferStart() { s.Cursor.Row = 0; s.Cursor.Col = 0; s.clampCursor() }
func (s *State) MoveBufferEnd() {
	s.Cursor.Row = s.totalRows() - 1
	s.clampCursor()
}

// HalfPage and FullPage implement Ctrl-U/Ctrl-D and PgUp/PgDn.
func (s *State) HalfPage(up bool) { s.page(s.live.Rows/2, up) }
func (s *State) FullPage(up bool) { s.page(s.live.Rows, up) }

func (s *State) page(n int, up bool) {
	if up {
		s.Cursor.Row -= n
	} else {
		s.Cursor.Row += n
	}
	s.clampCursor()
}

// SetAnchor sets the selection anchor to the current cursor (Space).
func (s *State) SetAnchor(mode SelectionMode) {
	a := s.Cursor
	s.Anchor = &a
	s.Mode = mode
}

// ClearAnchor drops the current selection without exiting copy mode.
func (s *State) ClearAnchor() { s.Anchor = nil }

// HasSelection reports whether an anchor is set.
func (s *State) HasSelection() bool { return s.Anchor != nil }

// Selection returns the ordered (start, end) of the current selection, or
// ok=false if none is set.
func (s *State) Selection() (start, end Position, ok bool) {
	if s.Anchor == nil {
		return Position{}, Position{}, false
	}
	a, b := *s.Anchor, s.Cursor
	if a.Row > b.Row || (a.Row == b.Row && a.Col > b.Col) {
		a, b = b, a
	}
	return a, b, true
}

// ExtractSelection returns the selected text: trailing
// blanks trimmed per line, lines newline-joined, wide-char continuation
// cells already excluded by lineText.
func (s *State) ExtractSelection() string {
	start, end, ok := s.Selection()
	if !ok {
		return ""
	}
	var lines []string
	for row := start.Row; row <= end.Row; row++ {
		text := []rune(s.lineText(row))
		from, to := 0, len(text)
		if s.Mode == Character {
			if row == start.Row {
				from = start.Col
			}
			if row == end.Row {
				to = end.Col + 1
				if to > len(text) {
					to = len(text)
				}
			}
		}
		if from > len(text) {
			from = len(text)
		}
		if to < from {
			to = from
		}
		lines = append(lines, strings.TrimRight(string(text[from:to]), " "))
	}
	return strings.Join(lines, "\n")
}

// Viewport returns the `rows` lines of virtual-buffer text to display so
// the cursor stays visible, plus the virtual row index of the first
// returned line. The renderer uses this to draw the copy-mode overlay
// without needing to know about scrollback itself.
func (s *State) Viewport(rows int) (lines []string, top int) {
	total := s.totalRows()
	if rows <= 0 || total == 0 {
		return nil, 0
	}
	top = s.Cursor.Row - rows + 1
	if top < 0 {
		top = 0
	}
	if top+rows > total {
		top = total - rows
	}
	if top < 0 {
		top = 0
	}
	for row := top; row < top+rows && row < total; row++ {
		lines = append(lines, s.lineText(row))
	}
	return lines, top
}

// Progress returns the cursor's 1-based position among the buffer's lines
// and the total line count, for the "[copy] N/M" indicator.
func (s *State) Progress() (n, m int) {
	return s.Cursor.Row + 1, s.totalRows()
}

// Search finds pattern starting from the position after the cursor (or
// before it, for Backward), wrapping according to WrapSearch. Updates
// LastMatch and Cursor on success, and returns whether a match was found.
func (s *State) Search(pattern string, dir Direction) bool {
	s.SearchPattern = pattern
	s.SearchDirection = dir
	return s.findFrom(s.Cursor, pattern, dir, true)
}

// RepeatSearch re-runs the last search in the same (opposite=false) or
// opposite (opposite=true) direction, implementing n/N.
func (s *State) RepeatSearch(opposite bool) bool {
	if s.SearchPattern == "" {
		return false
	}
	dir := s.SearchDirection
	if opposite {
		if dir == Forward {
			dir = Backward
		} else {
			dir = Forward
		}
	}
	return s.findFrom(s.Cursor, s.SearchPattern, dir, true)
}

func (s *State) findFrom(from Position, pattern string, dir Direction, allowWrap bool) bool {
	if pattern == "" {
		return false
	}
	total := s.totalRows()
	if dir == Forward {
		for row := from.Row; row < total; row++ {
			text := s.lineText(row)
			startCol := 0
			if row == from.Row {
				startCol = from.Col + 1
			}
			if idx := indexFrom(text, pattern, startCol); idx >= 0 {
				s.Cursor = Position{Row: row, Col: idx}
				s.LastMatch = &s.Cursor
				return true
			}
		}
		if allowWrap && s.WrapSearch {
			return s.findFrom(Position{Row: 0, Col: -1}, pattern, Forward, false)
		}
		return false
	}
	for row := from.Row; row >= 0; row-- {
		text := s.lineText(row)
		endCol := len(text)
		if row == from.Row {
			endCol = from.Col
		}
		if idx := lastIndexBefore(text, pattern, endCol); idx >= 0 {
			s.Cursor = Position{Row: row, Col: idx}
			s.LastMatch = &s.Cursor
			return true
		}
	}
	if allowWrap && s.WrapSearch {
		return s.findFrom(Position{Row: total - 1, Col: 1 << 30}, pattern, Backward, false)
	}
	return false
}

func indexFrom(text, pattern string, fromCol int) int {
	runes := []rune(text)
	if fromCol < 0 {
		fromCol = 0
	}
	if fromCol > len(runes) {
		return -1
	}
	idx := strings.Index(string(runes[fromCol:]), pattern)
	if idx < 0 {
		return -1
	}
	return fromCol + len([]rune(string(runes[fromCol:])[:idx]))
}

func lastIndexBefore(text, pattern string, beforeCol int) int {
	runes := []rune(text)
	if beforeCol > len(runes) {
		beforeCol = len(runes)
	}
	if beforeCol < 0 {
		return -1
	}
	sub := string(runes[:beforeCol])
	idx := strings.LastIndex(sub, pattern)
	if idx < 0 {
		return -1
	}
	return len([]rune(sub[:idx]))
}

package copymode

import (
	"testing"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/grid"
)

func liveGrid(rows, cols int, lines ...string) *grid.Grid {
	g := grid.New(rows, cols)
	for r, line := range lines {
		for c, ch := range line {
			g.Set(r, c, grid.Cell{Rune: ch, Width: 1})
		}
	}
	return g
}

func TestExtractSelectionCharacterMode(t *testing.T) {
	g := liveGrid(3, 20, "hello world", "second line")
	s := New(nil, g, false)
	s.Cursor = Position{Row: 0, Col: 0}
	s.SetAnchor(Character)
	s.Cursor = Position{Row: 0, Col: 4}

	got := s.ExtractSelection()
	if got != "hello" {
		t.Errorf("ExtractSelection = %q, want %q", got, "hello")
	}
}

func TestExtractSelectionLineMode(t *testing.T) {
	g := liveGrid(3, 20, "hello world", "second line")
	s := New(nil, g, false)
	s.Cursor = Position{Row: 0, Col: 5}
	s.SetAnchor(Line)
	s.Cursor = Position{Row: 1, Col: 2}

	got := s.ExtractSelection()
	want := "hello world\nsecond line"
	if got != want {
		t.Errorf("ExtractSelection = %q, want %q", got, want)
	}
}

func TestExtractSelectionTrimsTrailingBlanks(t *testing.T) {
	g := liveGrid(1, 20, "hi")
	s := New(nil, g, false)
	s.Cursor = Position{Row: 0, Col: 0}
	s.SetAnchor(Line)
	s.Cursor = Position{Row: 0, Col: 19}

	if got := s.ExtractSelection(); got != "hi" {
		t.Errorf("ExtractSelection = %q, want %q", got, "hi")
	}
}

func TestSearchForwardAcrossHistoryAndLive(t *testing.T) {
	history := []emulator.HistoryLine{{Plain: "needle here"}, {Plain: "nothing"}}
	g := liveGrid(2, 20, "still nothing", "found needle again")
	s := New(history, g, false)
	s.Cursor = Position{Row: 0, Col: -1}

	if !s.Search("needle", Forward) {
		t.Fatalf("expected to find first match in history")
	}
	if s.Cursor.Row != 0 {
		t.Errorf("first match row = %d, want 0", s.Cursor.Row)
	}

	if !s.RepeatSearch(false) {
		t.Fatalf("expected to find second match in live screen")
	}
	if s.Cursor.Row != 3 {
		t.Errorf("second match row = %d, want 3 (history len 2 + live row 1)", s.Cursor.Row)
	}
}

func TestSearchNoMatchNoWrap(t *testing.T) {
	g := liveGrid(1, 10, "hello")
	s := New(nil, g, false)
	if s.Search("zzz", Forward) {
		t.Fatalf("expected no match")
	}
}

func TestSearchWraps(t *testing.T) {
	g := liveGrid(2, 20, "needle first", "second line")
	s := New(nil, g, true)
	s.Cursor = Position{Row: 1, Col: 19}

	if !s.Search("needle", Forward) {
		t.Fatalf("expected wrap-around match")
	}
	if s.Cursor.Row != 0 {
		t.Errorf("wrapped match row = %d, want 0", s.Cursor.Row)
	}
}

func TestMotionsClampToBuffer(t *testing.T) {
	g := liveGrid(2, 10, "hi", "there")
	s := New(nil, g, false)
	s.Cursor = Position{Row: 0, Col: 0}
	s.MoveUp()
	if s.Cursor.Row != 0 {
		t.Errorf("MoveUp at top row = %d, want clamped to 0", s.Cursor.Row)
	}
	s.MoveBufferEnd()
	if s.Cursor.Row != 1 {
		t.Errorf("MoveBufferEnd row = %d, want 1", s.Cursor.Row)
	}
}

package grid

import "testing"

func TestNewGridBlank(t *testing.T) {
	g := New(5, 10)
	for r := 0; r < 5; r++ {
		for c := 0; c < 10; c++ {
			if got := g.At(r, c); got.Rune != ' ' || got.Width != 1 {
				t.Fatalf("At(%d,%d) = %+v, want blank", r, c, got)
			}
		}
	}
	if g.Bottom != 4 {
		t.Errorf("Bottom = %d, want 4", g.Bottom)
	}
}

func TestPutRuneWideNoStraddle(t *testing.T) {
	g := New(3, 5)
	// Wide rune at last column must not straddle the line end.
	cols, wrapped := g.PutRune(0, 4, '中')
	if !wrapped {
		t.Fatalf("expected wrap when placing wide rune at last column")
	}
	if cols != 2 {
		t.Errorf("cols = %d, want 2", cols)
	}
	// Original cell blanked.
	if got := g.At(0, 4); got.Rune != ' ' {
		t.Errorf("At(0,4) = %+v, want blank after wrap", got)
	}
	// Placed on next row instead, occupying two columns.
	if got := g.At(1, 0); got.Rune != '中' || got.Width != 2 {
		t.Errorf("At(1,0) = %+v, want wide rune", got)
	}
	if got := g.At(1, 1); got.Width != 0 {
		t.Errorf("At(1,1).Width = %d, want 0 (continuation cell)", got.Width)
	}
}

func TestPutRuneWideMidRow(t *testing.T) {
	g := New(3, 5)
	cols, wrapped := g.PutRune(0, 2, '中')
	if wrapped {
		t.Fatalf("did not expect wrap mid-row")
	}
	if cols != 2 {
		t.Errorf("cols = %d, want 2", cols)
	}
	if got := g.At(0, 2); got.Rune != '中' || got.Width != 2 {
		t.Errorf("At(0,2) = %+v", got)
	}
	if got := g.At(0, 3); got.Width != 0 {
		t.Errorf("At(0,3).Width = %d, want 0", got.Width)
	}
}

func TestScrollUpRetiresTopRow(t *testing.T) {
	g := New(3, 4)
	g.PutRune(0, 0, 'a')
	g.PutRune(1, 0, 'b')
	g.PutRune(2, 0, 'c')

	retired := g.ScrollUp(0, 2, 1)
	if len(retired) != 1 || retired[0][0].Rune != 'a' {
		t.Fatalf("retired = %+v, want row with 'a'", retired)
	}
	if got := g.At(0, 0); got.Rune != 'b' {
		t.Errorf("At(0,0) = %+v, want 'b'", got)
	}
	if got := g.At(1, 0); got.Rune != 'c' {
		t.Errorf("At(1,0) = %+v, want 'c'", got)
	}
	if got := g.At(2, 0); got.Rune != ' ' {
		t.Errorf("At(2,0) = %+v, want blank", got)
	}
}

func TestScrollDownFillsTop(t *testing.T) {
	g := New(3, 4)
	g.PutRune(0, 0, 'a')
	g.PutRune(1, 0, 'b')

	g.ScrollDown(0, 2, 1)
	if got := g.At(0, 0); got.Rune != ' ' {
		t.Errorf("At(0,0) = %+v, want blank", got)
	}
	if got := g.At(1, 0); got.Rune != 'a' {
		t.Errorf("At(1,0) = %+v, want 'a'", got)
	}
	if got := g.At(2, 0); got.Rune != 'b' {
		t.Errorf("At(2,0) = %+v, want 'b'", got)
	}
}

func TestResizeShrinkTruncatesNoReflow(t *testing.T) {
	g := New(4, 10)
	g.PutRune(0, 9, 'z')
	g.Cursor = Cursor{Row: 3, Col: 9, Visible: true}

	g.Resize(2, 5)

	if g.Rows != 2 || g.Cols != 5 {
		t.Fatalf("Resize did not update dimensions: %dx%d", g.Rows, g.Cols)
	}
	// Column 9 is gone; no reflow should resurrect it within bounds.
	if got := g.At(0, 4); got.Rune != ' ' {
		t.Errorf("At(0,4) = %+v, want blank (truncated, not reflowed)", got)
	}
	if g.Cursor.Row != 1 || g.Cursor.Col != 4 {
		t.Errorf("cursor = %+v, want clamped to (1,4)", g.Cursor)
	}
	if g.Bottom != 1 {
		t.Errorf("Bottom = %d, want 1", g.Bottom)
	}
}

func TestResizeGrowPreservesContent(t *testing.T) {
	g := New(2, 3)
	g.PutRune(0, 0, 'x')
	g.Resize(4, 6)
	if got := g.At(0, 0); got.Rune != 'x' {
		t.Errorf("At(0,0) = %+v, want 'x' preserved across grow", got)
	}
	if got := g.At(3, 5); got.Rune != ' ' {
		t.Errorf("At(3,5) = %+v, want blank", got)
	}
}

func TestRowOutOfRange(t *testing.T) {
	g := New(2, 2)
	if row := g.Row(5); row != nil {
		t.Errorf("Row(5) = %v, want nil", row)
	}
}

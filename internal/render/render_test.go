package render

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/layout"
	"github.com/blackwitch/wtmux/internal/mux"
)

func testPane(id int) *mux.Pane {
	emu := emulator.New(5, 20, nil)
	emu.Feed([]byte("hello"))
	return mux.NewPane(id, nil, emu, "sh")
}

func TestFrameIncludesPaneTextAndStatusBar(t *testing.T) {
	win := mux.NewWindow(0, "main", testPane(1), new(int))
	opts := Options{
		Status:                true,
		StatusLeft:            "[#{session_name}] ",
		StatusRight:           "",
		StatusStyle:           "fg=black,bg=green",
		PaneBorderStyle:       "default",
		PaneActiveBorderStyle: "fg=green",
	}
	out := string(Frame(win, layout.Rect{W: 20, H: 6}, "work", opts, Overlay{}, time.Now()))
	if !strings.Contains(out, "hello") {
		t.Errorf("frame missing pane text: %q", out)
	}
	if !strings.Contains(out, "work") {
		t.Errorf("frame missing status bar session name: %q", out)
	}
}

func TestFrameMessageOverlayReplacesStatusBar(t *testing.T) {
	win := mux.NewWindow(0, "main", testPane(1), new(int))
	opts := Options{Status: true, StatusLeft: "x", StatusStyle: "fg=black,bg=green"}
	out := string(Frame(win, layout.Rect{W: 20, H: 6}, "work", opts, Overlay{Message: "detached"}, time.Now()))
	if !strings.Contains(out, "detached") {
		t.Errorf("expected message overlay text in frame")
	}
}

func TestFrameCopyModeShowsProgressIndicator(t *testing.T) {
	p := testPane(1)
	p.EnterCopyMode(true)
	win := mux.NewWindow(0, "main", p, new(int))
	opts := Options{Status: false}
	out := string(Frame(win, layout.Rect{W: 20, H: 6}, "work", opts, Overlay{}, time.Now()))
	if !strings.Contains(out, "[copy]") {
		t.Errorf("expected copy-mode progress indicator, got %q", out)
	}
}

func TestFormatStringExpandsVariablesAndStrftime(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 5, 0, 0, time.UTC)
	got := FormatString("[#{session_name}] %H:%M %Y-%m-%d", "work", now)
	want := "[work] 09:05 2026-07-30"
	if got != want {
		t.Errorf("FormatString = %q, want %q", got, want)
	}
}

func TestFormatStringPassesThroughUnknownSpecifier(t *testing.T) {
	got := FormatString("100%qdone", "x", time.Now())
	if got != "100%qdone" {
		t.Errorf("FormatString = %q, want unchanged literal pass-through for %%q", got)
	}
}

func TestParseStyleRecognizesNamedAndIndexedColors(t *testing.T) {
	st := ParseStyle("fg=green,bg=colour202,bold")
	if st.Fg == nil || st.Bg == nil || !st.Bold {
		t.Errorf("ParseStyle did not populate fg/bg/bold: %+v", st)
	}
}

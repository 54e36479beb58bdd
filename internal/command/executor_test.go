package command

import (
	"strings"
	"testing"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/mux"
)

func fakeSpawner(nextID func() int) Spawner {
	return func(opts *Options, rows, cols int, command string) (*mux.Pane, error) {
		emu := emulator.New(rows, cols, nil)
		return mux.NewPane(nextID(), nil, emu, command), nil
	}
}

func newTestExecutor() *Executor {
	e := NewExecutor(mux.NewRegistry(), nil)
	e.Spawn = fakeSpawner(e.allocatePaneID)
	return e
}

func TestNewSessionThenListSessions(t *testing.T) {
	e := newTestExecutor()
	if _, err := e.Dispatch("c1", "", 24, 80, "new-session -s work"); err != nil {
		t.Fatalf("new-session: %v", err)
	}
	out, err := e.Dispatch("c1", "work", 24, 80, "list-sessions")
	if err != nil {
		t.Fatalf("list-sessions: %v", err)
	}
	if !strings.Contains(out, "work") {
		t.Errorf("list-sessions output %q missing session name", out)
	}
}

func TestSplitWindowAndKillPaneEndsSessionOnLast(t *testing.T) {
	e := newTestExecutor()
	e.Dispatch("c1", "", 24, 80, "new-session -s work")
	if _, err := e.Dispatch("c1", "work", 24, 80, "split-window -h"); err != nil {
		t.Fatalf("split-window: %v", err)
	}
	sess, _ := e.Registry.Get("work")
	w := sess.ActiveWindow()
	if len(w.Panes) != 2 {
		t.Fatalf("expected 2 panes after split, got %d", len(w.Panes))
	}

	for len(w.Panes) > 0 {
		if _, err := e.Dispatch("c1", "work", 24, 80, "kill-pane"); err != nil {
			break
		}
	}
	if _, err := e.Registry.Get("work"); err == nil {
		t.Errorf("expected session to be killed once its last pane dies")
	}
}

func TestNewSessionSizesPaneFromClient(t *testing.T) {
	e := newTestExecutor()
	if _, err := e.Dispatch("c1", "", 50, 120, "new-session -s work"); err != nil {
		t.Fatalf("new-session: %v", err)
	}
	sess, _ := e.Registry.Get("work")
	w := sess.ActiveWindow()
	pane := w.Panes[w.ActivePaneID]
	snap := pane.Emu.Snapshot()
	if snap.Rows != 50 || snap.Cols != 120 {
		t.Errorf("pane sized %dx%d, want 50x120 from the attaching client", snap.Rows, snap.Cols)
	}
}

func TestSplitWindowResizesSurvivingPanes(t *testing.T) {
	e := newTestExecutor()
	e.Dispatch("c1", "", 24, 81, "new-session -s work")
	sess, _ := e.Registry.Get("work")
	w := sess.ActiveWindow()
	original := w.Panes[w.ActivePaneID]

	if _, err := e.Dispatch("c1", "work", 24, 81, "split-window -h"); err != nil {
		t.Fatalf("split-window: %v", err)
	}
	snap := original.Emu.Snapshot()
	if snap.Cols >= 81 {
		t.Errorf("original pane still spans the full width (%d cols) after split, want it shrunk", snap.Cols)
	}
}

func TestSplitWindowRefusesWhenAreaTooSmall(t *testing.T) {
	e := newTestExecutor()
	e.Dispatch("c1", "", 2, 2, "new-session -s work")
	if _, err := e.Dispatch("c1", "work", 2, 2, "split-window -h"); err == nil {
		t.Errorf("expected split-window to refuse a split of a 2x2 window")
	}
	sess, _ := e.Registry.Get("work")
	if len(sess.ActiveWindow().Panes) != 1 {
		t.Errorf("expected the refused split to leave the window with its original single pane")
	}
}

func TestSetOptionPrefixUpdatesDispatcher(t *testing.T) {
	e := newTestExecutor()
	if _, err := e.Dispatch("c1", "", 24, 80, "set-option prefix C-a"); err != nil {
		t.Fatalf("set-option: %v", err)
	}
	want, _ := ParseChord("C-a")
	if e.Keys.PrefixChord != want {
		t.Errorf("PrefixChord = %+v, want %+v", e.Keys.PrefixChord, want)
	}
}

func TestBindKeyThenListKeys(t *testing.T) {
	e := newTestExecutor()
	if _, err := e.Dispatch("c1", "", 24, 80, "bind-key c new-window"); err != nil {
		t.Fatalf("bind-key: %v", err)
	}
	out, err := e.Dispatch("c1", "", 24, 80, "list-keys")
	if err != nil {
		t.Fatalf("list-keys: %v", err)
	}
	if !strings.Contains(out, "new-window") {
		t.Errorf("list-keys output %q missing binding", out)
	}
}

func TestRenameSessionConflict(t *testing.T) {
	e := newTestExecutor()
	e.Dispatch("c1", "", 24, 80, "new-session -s a")
	e.Dispatch("c1", "", 24, 80, "new-session -s b")
	if _, err := e.Dispatch("c1", "a", 24, 80, "rename-session b"); err == nil {
		t.Errorf("expected rename-session to fail renaming onto an existing name")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	e := newTestExecutor()
	if _, err := e.Dispatch("c1", "", 24, 80, "frobnicate"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestKillSessionRemovesFromRegistry(t *testing.T) {
	e := newTestExecutor()
	e.Dispatch("c1", "", 24, 80, "new-session -s work")
	if _, err := e.Dispatch("c1", "work", 24, 80, "kill-session -t work"); err != nil {
		t.Fatalf("kill-session: %v", err)
	}
	if _, err := e.Registry.Get("work"); err == nil {
		t.Errorf("expected session to be gone")
	}
}

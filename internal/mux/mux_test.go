package mux

import (
	"testing"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/layout"
)

func newTestPane(id int) *Pane {
	return NewPane(id, nil, emulator.New(24, 80, nil), "sh")
}

func TestNewSessionSingleWindow(t *testing.T) {
	s := NewSession("main", 0, newTestPane(1))
	if len(s.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(s.Windows))
	}
	if s.ActiveWindowID != 0 {
		t.Errorf("ActiveWindowID = %d, want 0 (base index)", s.ActiveWindowID)
	}
}

func TestAddWindowAssignsLowestFreeIndex(t *testing.T) {
	s := NewSession("main", 0, newTestPane(1))
	w, err := s.AddWindow(-1, "", newTestPane(2))
	if err != nil {
		t.Fatalf("AddWindow: %v", err)
	}
	if w.Index != 1 {
		t.Errorf("Index = %d, want 1", w.Index)
	}
}

func TestKillWindowRenumbers(t *testing.T) {
	s := NewSession("main", 0, newTestPane(1))
	s.RenumberWindows = true
	s.AddWindow(-1, "", newTestPane(2))
	s.AddWindow(-1, "", newTestPane(3))

	empty, err := s.KillWindow(1)
	if err != nil {
		t.Fatalf("KillWindow: %v", err)
	}
	if empty {
		t.Fatalf("session should not be empty")
	}
	indices := make(map[int]bool)
	for idx := range s.Windows {
		indices[idx] = true
	}
	if !indices[0] || !indices[1] || indices[2] {
		t.Errorf("windows after renumber = %v, want {0,1}", indices)
	}
}

func TestKillLastWindowEmptiesSession(t *testing.T) {
	s := NewSession("main", 0, newTestPane(1))
	empty, err := s.KillWindow(0)
	if err != nil {
		t.Fatalf("KillWindow: %v", err)
	}
	if !empty {
		t.Fatalf("expected session to report empty after killing its only window")
	}
}

func TestSelectWindowRelativeWraps(t *testing.T) {
	s := NewSession("main", 0, newTestPane(1))
	s.AddWindow(-1, "", newTestPane(2))
	s.ActiveWindowID = 0

	if err := s.SelectWindowRelative(-1); err != nil {
		t.Fatalf("SelectWindowRelative: %v", err)
	}
	if s.ActiveWindowID != 1 {
		t.Errorf("ActiveWindowID = %d, want 1 (wrapped backward)", s.ActiveWindowID)
	}
}

func TestWindowAddPaneAndRemove(t *testing.T) {
	p1 := newTestPane(1)
	w := NewWindow(0, "", p1, new(int))
	p2 := newTestPane(2)
	if err := w.AddPane(p2, layout.Horizontal, true); err != nil {
		t.Fatalf("AddPane: %v", err)
	}
	if w.ActivePaneID != 2 {
		t.Errorf("ActivePaneID = %d, want 2", w.ActivePaneID)
	}

	empty, err := w.RemovePane(2)
	if err != nil {
		t.Fatalf("RemovePane: %v", err)
	}
	if empty {
		t.Fatalf("window should not be empty")
	}
	if w.ActivePaneID != 1 {
		t.Errorf("ActivePaneID after remove = %d, want 1 (last-active fallback)", w.ActivePaneID)
	}
}

func TestWindowRemoveLastPaneEmpties(t *testing.T) {
	p1 := newTestPane(1)
	w := NewWindow(0, "", p1, new(int))
	empty, err := w.RemovePane(1)
	if err != nil {
		t.Fatalf("RemovePane: %v", err)
	}
	if !empty {
		t.Fatalf("expected window to report empty")
	}
}

func TestAddPaneResizesPanesToArea(t *testing.T) {
	p1 := newTestPane(1)
	w := NewWindow(0, "", p1, new(int))
	w.SetArea(layout.Rect{W: 81, H: 24})

	p2 := newTestPane(2)
	if err := w.AddPane(p2, layout.Horizontal, true); err != nil {
		t.Fatalf("AddPane: %v", err)
	}
	snap := p1.Emu.Snapshot()
	if snap.Cols >= 81 {
		t.Errorf("pane 1 still spans the full width (%d cols) after a horizontal split", snap.Cols)
	}
	snap2 := p2.Emu.Snapshot()
	if snap2.Cols >= 81 {
		t.Errorf("pane 2 spans the full width (%d cols), want its own half", snap2.Cols)
	}
}

func TestAddPaneRefusesWhenAreaTooSmall(t *testing.T) {
	p1 := newTestPane(1)
	w := NewWindow(0, "", p1, new(int))
	w.SetArea(layout.Rect{W: 2, H: 2})

	p2 := newTestPane(2)
	if err := w.AddPane(p2, layout.Horizontal, true); err == nil {
		t.Fatalf("expected AddPane to refuse splitting a 2x2 window")
	}
	if len(w.Panes) != 1 {
		t.Errorf("expected the refused split to leave the window with its original pane only")
	}
}

func TestZoomToggle(t *testing.T) {
	p1 := newTestPane(1)
	w := NewWindow(0, "", p1, new(int))
	w.ToggleZoom()
	if !w.IsZoomed() || w.ZoomedPaneID != 1 {
		t.Errorf("expected pane 1 zoomed")
	}
	w.ToggleZoom()
	if w.IsZoomed() {
		t.Errorf("expected zoom cleared")
	}
}

func TestRegistryRenameConflict(t *testing.T) {
	r := NewRegistry()
	r.AddSession(NewSession("a", 0, newTestPane(1)))
	r.AddSession(NewSession("b", 0, newTestPane(1)))

	if err := r.Rename("a", "b"); err == nil {
		t.Fatalf("expected conflict renaming to an existing session name")
	}
}

func TestRegistryAddDuplicateFails(t *testing.T) {
	r := NewRegistry()
	if err := r.AddSession(NewSession("a", 0, newTestPane(1))); err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	if err := r.AddSession(NewSession("a", 0, newTestPane(1))); err == nil {
		t.Fatalf("expected conflict adding duplicate session name")
	}
}

func TestRegistryListSortedByName(t *testing.T) {
	r := NewRegistry()
	r.AddSession(NewSession("zeta", 0, newTestPane(1)))
	r.AddSession(NewSession("alpha", 0, newTestPane(1)))

	list := r.List()
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Errorf("List() = %v, want sorted [alpha zeta]", list)
	}
}

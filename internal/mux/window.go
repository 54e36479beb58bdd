package mux

import (
	"fmt"

	"github.com/blackwitch/wtmux/internal/layout"
)

// Window is a session's window: a layout tree of panes, the active/last-
// active pane, and an optional zoomed pane.
type Window struct {
	Index int
	Name  string

	Layout *layout.Node
	Panes  map[int]*Pane

	// Area is the window's current display rectangle, kept in sync with
	// the attaching client's terminal size. Zero until a client attaches
	// or a pane is spawned with a known size. SetArea is the usual writer;
	// split-window also assigns it directly before AddPane, which then
	// resizes every pane to the new rectangles.
	Area layout.Rect

	ActivePaneID     int
	LastActivePaneID int
	ZoomedPaneID     int // 0 means not zoomed; pane ids start at 1
	ClockMode        bool

	nextPaneID *int // shared counter from the owning Session
}

// NewWindow creates a window with a single pane wrapping the given Pane.
func NewWindow(index int, name string, first *Pane, nextPaneID *int) *Window {
	w := &Window{
		Index:      index,
		Name:       name,
		Layout:     layout.Leaf(first.ID),
		Panes:      map[int]*Pane{first.ID: first},
		nextPaneID: nextPaneID,
	}
	w.ActivePaneID = first.ID
	w.LastActivePaneID = first.ID
	return w
}

// IsZoomed reports whether a pane is currently zoomed.
func (w *Window) IsZoomed() bool { return w.ZoomedPaneID != 0 }

// ToggleZoom zooms the active pane, or unzooms if already zoomed. Zooming
// gives the pane the full window area; unzooming restores every pane to
// its tree rectangle — both resize the affected PTYs/emulators.
func (w *Window) ToggleZoom() {
	if w.ZoomedPaneID != 0 {
		w.ZoomedPaneID = 0
	} else {
		w.ZoomedPaneID = w.ActivePaneID
	}
	w.ResizePanes()
}

// SelectPane sets the active pane, updating last-active tracking. Updated
// on every explicit selection, not implicit focus changes.
func (w *Window) SelectPane(id int) error {
	if _, ok := w.Panes[id]; !ok {
		return fmt.Errorf("mux: pane %d not in window %d", id, w.Index)
	}
	w.LastActivePaneID = w.ActivePaneID
	w.ActivePaneID = id
	return nil
}

// AddPane inserts pane into the layout tree by splitting the active leaf,
// refusing the split (without mutating anything) if Area is known and too
// small to give every resulting leaf its 1-cell minimum. On success, every
// surviving pane's PTY and emulator are resized to its new rectangle.
func (w *Window) AddPane(p *Pane, orientation layout.Orientation, after bool) error {
	newTree, err := layout.SplitLeaf(w.Layout, w.ActivePaneID, orientation, p.ID, after, w.Area)
	if err != nil {
		return err
	}
	w.Layout = newTree
	w.Panes[p.ID] = p
	w.LastActivePaneID = w.ActivePaneID
	w.ActivePaneID = p.ID
	w.ResizePanes()
	return nil
}

// RemovePane removes a pane from the layout and the window's pane set. If
// it was active, the last-active pane becomes active. If
// it was zoomed, zoom is cleared. Returns true if the window is now empty.
// Surviving panes are resized to fill the reclaimed space.
func (w *Window) RemovePane(id int) (empty bool, err error) {
	newTree, err := layout.RemoveLeaf(w.Layout, id)
	if err != nil {
		return false, err
	}
	delete(w.Panes, id)
	if w.ZoomedPaneID == id {
		w.ZoomedPaneID = 0
	}
	w.Layout = newTree
	if newTree == nil {
		return true, nil
	}
	if w.ActivePaneID == id {
		next := w.LastActivePaneID
		if _, ok := w.Panes[next]; !ok || next == id {
			leaves := layout.Leaves(w.Layout)
			if len(leaves) > 0 {
				next = leaves[0].PaneID
			}
		}
		w.ActivePaneID = next
	}
	if w.LastActivePaneID == id {
		w.LastActivePaneID = w.ActivePaneID
	}
	w.ResizePanes()
	return false, nil
}

// SetArea records the window's current display rectangle and resizes
// every pane's PTY and terminal emulator to match its new rectangle,
// honoring zoom.
func (w *Window) SetArea(area layout.Rect) {
	w.Area = area
	w.ResizePanes()
}

// ResizePanes pushes the window's current Area through Rects and applies
// the result to each pane's PTY and emulator. A zero Area (no client size
// known yet) is a no-op. Every layout-mutating operation (split, remove,
// zoom, resize-pane, swap-pane, next-layout) calls this after committing
// its change so the child shell's own line-wrap/cursor math always
// matches the rectangle the compositor renders it into.
func (w *Window) ResizePanes() {
	if w.Area.W <= 0 || w.Area.H <= 0 {
		return
	}
	for id, rect := range w.Rects(w.Area) {
		p, ok := w.Panes[id]
		if !ok || p.Dead {
			continue
		}
		if p.PTY != nil {
			p.PTY.Resize(rect.H, rect.W)
		}
		if p.Emu != nil {
			p.Emu.Resize(rect.H, rect.W)
		}
	}
}

// Rects computes every pane's rectangle for the window's current area,
// honoring zoom.
func (w *Window) Rects(area layout.Rect) map[int]layout.Rect {
	if w.ZoomedPaneID != 0 {
		if _, ok := w.Panes[w.ZoomedPaneID]; ok {
			return map[int]layout.Rect{w.ZoomedPaneID: area}
		}
	}
	return layout.Rects(w.Layout, area)
}

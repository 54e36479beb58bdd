package mux

import (
	"fmt"
	"time"
)

// Session is an ordered list of windows, keyed by integer index starting
// at BaseIndex. Grounded on session.go's field layout
// (name, started-at, mutex-guarded client set) generalized from one child
// process to an ordered window list.
type Session struct {
	Name string

	Windows          map[int]*Window
	order            []int // window indices, insertion order for tie-breaking
	ActiveWindowID   int
	LastActiveWindow int

	BaseIndex        int
	RenumberWindows  bool

	CreatedAt       time.Time
	AttachedClients map[string]bool

	nextPaneID int
}

// NewSession creates a session with a single window wrapping firstPane.
func NewSession(name string, baseIndex int, firstPane *Pane) *Session {
	s := &Session{
		Name:            name,
		Windows:         make(map[int]*Window),
		BaseIndex:       baseIndex,
		CreatedAt:       time.Now(),
		AttachedClients: make(map[string]bool),
		nextPaneID:      firstPane.ID,
	}
	w := NewWindow(baseIndex, "", firstPane, &s.nextPaneID)
	s.Windows[baseIndex] = w
	s.order = append(s.order, baseIndex)
	s.ActiveWindowID = baseIndex
	s.LastActiveWindow = baseIndex
	return s
}

// AllocatePaneID returns a fresh pane id unique within the session.
func (s *Session) AllocatePaneID() int {
	s.nextPaneID++
	return s.nextPaneID
}

// NextWindowIndex returns the lowest unused index >= BaseIndex.
func (s *Session) NextWindowIndex() int {
	for i := s.BaseIndex; ; i++ {
		if _, used := s.Windows[i]; !used {
			return i
		}
	}
}

// AddWindow inserts a new window at the lowest free index (or idx if >= 0)
// wrapping firstPane, and makes it active.
func (s *Session) AddWindow(idx int, name string, firstPane *Pane) (*Window, error) {
	if idx < 0 {
		idx = s.NextWindowIndex()
	} else if _, used := s.Windows[idx]; used {
		return nil, fmt.Errorf("mux: window index %d already in use", idx)
	}
	w := NewWindow(idx, name, firstPane, &s.nextPaneID)
	s.Windows[idx] = w
	s.order = append(s.order, idx)
	s.LastActiveWindow = s.ActiveWindowID
	s.ActiveWindowID = idx
	return w, nil
}

// KillWindow removes a window. If it was the session's last window, the
// session itself should be killed by the caller. Returns true if the session is now
// empty.
func (s *Session) KillWindow(idx int) (sessionEmpty bool, err error) {
	if _, ok := s.Windows[idx]; !ok {
		return false, fmt.Errorf("mux: no window %d in session %q", idx, s.Name)
	}
	delete(s.Windows, idx)
	for i, v := range s.order {
		if v == idx {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.Windows) == 0 {
		return true, nil
	}
	if s.ActiveWindowID == idx {
		next := s.LastActiveWindow
		if _, ok := s.Windows[next]; !ok || next == idx {
			next = s.order[0]
		}
		s.ActiveWindowID = next
	}
	if s.LastActiveWindow == idx {
		s.LastActiveWindow = s.ActiveWindowID
	}
	if s.RenumberWindows {
		s.renumber()
	}
	return false, nil
}

// renumber reassigns dense indices starting at BaseIndex, preserving
// relative order.
func (s *Session) renumber() {
	oldOrder := make([]int, len(s.order))
	copy(oldOrder, s.order)
	newWindows := make(map[int]*Window, len(s.Windows))
	newOrder := make([]int, 0, len(oldOrder))
	idx := s.BaseIndex
	oldToNew := make(map[int]int, len(oldOrder))
	for _, old := range oldOrder {
		w := s.Windows[old]
		w.Index = idx
		newWindows[idx] = w
		newOrder = append(newOrder, idx)
		oldToNew[old] = idx
		idx++
	}
	s.Windows = newWindows
	s.order = newOrder
	if v, ok := oldToNew[s.ActiveWindowID]; ok {
		s.ActiveWindowID = v
	}
	if v, ok := oldToNew[s.LastActiveWindow]; ok {
		s.LastActiveWindow = v
	}
}

// SelectWindow implements select-window targeting by absolute index,
// remembering the previously active window as LastActiveWindow. Relative
// moves (next-window/previous-window) go through SelectWindowRelative.
func (s *Session) SelectWindow(idx int) error {
	if _, ok := s.Windows[idx]; !ok {
		return fmt.Errorf("mux: no window %d in session %q", idx, s.Name)
	}
	s.LastActiveWindow = s.ActiveWindowID
	s.ActiveWindowID = idx
	return nil
}

// SelectWindowRelative moves the active window by delta positions in
// s.order, wrapping around (next-window is delta=1, previous-window is
// delta=-1).
func (s *Session) SelectWindowRelative(delta int) error {
	if len(s.order) == 0 {
		return fmt.Errorf("mux: session %q has no windows", s.Name)
	}
	pos := 0
	for i, v := range s.order {
		if v == s.ActiveWindowID {
			pos = i
			break
		}
	}
	n := len(s.order)
	next := ((pos+delta)%n + n) % n
	return s.SelectWindow(s.order[next])
}

// ActiveWindow returns the session's currently active window.
func (s *Session) ActiveWindow() *Window { return s.Windows[s.ActiveWindowID] }

// Rename changes the session's display name. Callers (the command
// executor) are responsible for checking name uniqueness across the
// server registry first.
func (s *Session) Rename(name string) { s.Name = name }

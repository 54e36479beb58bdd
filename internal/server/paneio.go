package server

import (
	"github.com/blackwitch/wtmux/internal/command"
	"github.com/blackwitch/wtmux/internal/layout"
	"github.com/blackwitch/wtmux/internal/mux"
)

// wrapSpawner wraps the executor's default Spawner so every pane it
// creates, however the command reaches it (new-session, split-window,
// ...), gets a dedicated output-reader goroutine.
func (s *Server) wrapSpawner(inner command.Spawner) command.Spawner {
	return func(opts *command.Options, rows, cols int, cmd string) (*mux.Pane, error) {
		pane, err := inner(opts, rows, cols, cmd)
		if err != nil {
			return nil, err
		}
		if pane.PTY != nil {
			go s.readPane(pane)
		}
		return pane, nil
	}
}

// readPane copies one pane's PTY output into its emulator, enqueuing a
// redraw after every read and a death event once the PTY closes. This is
// the only goroutine that calls PTY.Read for this pane; it never touches
// Registry/Exec directly, only through s.events.
func (s *Server) readPane(p *mux.Pane) {
	buf := make([]byte, 4096)
	for {
		n, err := p.PTY.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.events <- func(srv *Server) {
				p.Emu.Feed(chunk)
				p.Touch()
				if name, _, ok := srv.findPaneOwner(p.ID); ok {
					srv.redrawSession(name)
				}
			}
		}
		if err != nil {
			exitCode := p.PTY.Wait()
			s.events <- func(srv *Server) { srv.handlePaneDeath(p, exitCode) }
			return
		}
	}
}

// findPaneOwner locates the session and window owning a pane id.
func (s *Server) findPaneOwner(paneID int) (sessionName string, win *mux.Window, ok bool) {
	for _, sess := range s.Registry.Sessions {
		for _, w := range sess.Windows {
			if _, has := w.Panes[paneID]; has {
				return sess.Name, w, true
			}
		}
	}
	return "", nil, false
}

// handlePaneDeath applies the same removal cascade as kill-pane (the pane
// is removed from its window; an empty window is killed; an empty session
// is killed) in response to the child process exiting on its own, rather
// than an explicit kill-pane command.
func (s *Server) handlePaneDeath(p *mux.Pane, exitCode int) {
	p.MarkDead(exitCode)
	sessionName, w, ok := s.findPaneOwner(p.ID)
	if !ok {
		return
	}
	sess, err := s.Registry.Get(sessionName)
	if err != nil {
		return
	}
	empty, err := w.RemovePane(p.ID)
	if err != nil {
		return
	}
	if s.Log != nil {
		s.Log.PaneExited(sessionName, w.Index, p.ID, exitCode)
	}
	if empty {
		sessEmpty, err := sess.KillWindow(w.Index)
		if err == nil && sessEmpty {
			s.Registry.Kill(sessionName)
			for _, c := range s.clients {
				if c.SessionName == sessionName {
					c.SessionName = ""
					c.sendDetached("session ended")
				}
			}
			return
		}
	}
	s.redrawSession(sessionName)
}

func layoutRect(rows, cols int) layout.Rect {
	return layout.Rect{W: cols, H: rows}
}

package server

import (
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/blackwitch/wtmux/internal/copymode"
	"github.com/blackwitch/wtmux/internal/ipc"
	"github.com/blackwitch/wtmux/internal/keybind"
	"github.com/blackwitch/wtmux/internal/layout"
	"github.com/blackwitch/wtmux/internal/render"
)

// clientConn is one attached client's connection state, touched only from
// the dispatcher goroutine (writes included — net.Conn.Write is safe to
// call from exactly one goroutine at a time without extra locking here).
type clientConn struct {
	ID   string
	Conn net.Conn

	SessionName string
	Rows, Cols  int

	chordState keybind.ClientState
	message    string // last display-message/error text, shown on the status row

	// copy-mode search-entry sub-state.
	copySearch bool
	searchDir  copymode.Direction
	searchBuf  []rune
}

func (s *Server) handleConn(conn net.Conn) {
	id := fmt.Sprintf("c%s", uuid.NewString())
	c := &clientConn{ID: id, Conn: conn, Rows: 24, Cols: 80}

	s.events <- func(srv *Server) {
		srv.clients[c.ID] = c
	}

	defer func() {
		s.events <- func(srv *Server) {
			if c.SessionName != "" && srv.Log != nil {
				srv.Log.ClientDetached(c.ID, c.SessionName)
			}
			delete(srv.clients, c.ID)
		}
		conn.Close()
	}()

	for {
		payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return
		}
		msg, err := ipc.DecodeClientMessage(payload)
		if err != nil {
			return
		}
		s.events <- func(srv *Server) { srv.handleMessage(c, msg) }
	}
}

func (c *clientConn) send(msg ipc.ServerMessage) error {
	payload := ipc.EncodeServerMessage(msg)
	return ipc.WriteFrame(c.Conn, payload)
}

func (c *clientConn) sendText(kind ipc.ServerKind, text string) {
	c.send(ipc.ServerMessage{Kind: kind, Text: text})
}

func (c *clientConn) sendDetached(reason string) {
	c.send(ipc.ServerMessage{Kind: ipc.ServerDetached, Text: reason})
}

func (s *Server) handleMessage(c *clientConn, msg ipc.ClientMessage) {
	switch msg.Kind {
	case ipc.ClientHello:
		c.Rows, c.Cols = msg.TermRows, msg.TermCols
		c.send(ipc.ServerMessage{Kind: ipc.ServerWelcome, ServerVersion: protocolVersion})

	case ipc.ClientNewSession:
		args := []string{}
		if msg.HasName {
			args = append(args, "-s", msg.Name)
		}
		if msg.Command != "" {
			args = append(args, "-c", msg.Command)
		}
		reply, err := s.Exec.Dispatch(c.ID, c.SessionName, c.Rows, c.Cols, joinArgs("new-session", args))
		if err != nil {
			c.sendText(ipc.ServerError, err.Error())
			return
		}
		// newSession's reply is "created session <name>" (internal/command's
		// own success-message format); take the name from there instead of
		// re-deriving the auto-generated-name rule independently here.
		name := msg.Name
		if name == "" {
			if idx := lastSpace(reply); idx >= 0 {
				name = reply[idx+1:]
			}
		}
		s.attachClient(c, name)

	case ipc.ClientAttachSession:
		if _, err := s.Registry.Get(msg.Name); err != nil {
			c.sendText(ipc.ServerError, err.Error())
			return
		}
		s.attachClient(c, msg.Name)

	case ipc.ClientListSessions:
		var summaries []ipc.SessionSummary
		for _, sess := range s.Registry.List() {
			attached := false
			for _, other := range s.clients {
				if other.SessionName == sess.Name {
					attached = true
					break
				}
			}
			summaries = append(summaries, ipc.SessionSummary{
				Name:      sess.Name,
				Windows:   len(sess.Windows),
				Attached:  attached,
				CreatedAt: sess.CreatedAt.Unix(),
			})
		}
		c.send(ipc.ServerMessage{Kind: ipc.ServerSessionList, Sessions: summaries})

	case ipc.ClientKillSession:
		reply, err := s.Exec.Dispatch(c.ID, c.SessionName, c.Rows, c.Cols, joinArgs("kill-session", []string{"-t", msg.Name}))
		if err != nil {
			c.sendText(ipc.ServerError, err.Error())
			return
		}
		for _, other := range s.clients {
			if other.SessionName != msg.Name {
				continue
			}
			other.SessionName = ""
			if other.ID == c.ID {
				continue // c gets the request's own success reply below, not a Detached
			}
			other.sendDetached("session killed")
		}
		c.sendText(ipc.ServerMessageText, reply)

	case ipc.ClientKillServer:
		s.Shutdown()

	case ipc.ClientInput:
		s.handleInput(c, msg.Bytes)

	case ipc.ClientResize:
		c.Rows, c.Cols = msg.Rows, msg.Cols
		if sess, err := s.Registry.Get(c.SessionName); err == nil {
			sess.ActiveWindow().SetArea(layout.Rect{W: c.Cols, H: c.Rows})
		}
		s.redrawClient(c)

	case ipc.ClientCommand:
		msgText, err := s.Exec.Dispatch(c.ID, c.SessionName, c.Rows, c.Cols, msg.Line)
		if err != nil {
			c.message = err.Error()
		} else {
			c.message = msgText
		}
		s.redrawClient(c)

	case ipc.ClientDetach:
		if c.SessionName != "" && s.Log != nil {
			s.Log.ClientDetached(c.ID, c.SessionName)
		}
		c.SessionName = ""
		c.sendDetached("")

	case ipc.ClientPing:
		c.send(ipc.ServerMessage{Kind: ipc.ServerPong})
	}
}

// protocolVersion is advertised in the Welcome message; bumped whenever
// ClientMessage/ServerMessage's wire shape changes.
const protocolVersion = "1"

func (s *Server) attachClient(c *clientConn, sessionName string) {
	c.SessionName = sessionName
	if s.Log != nil {
		s.Log.ClientAttached(c.ID, sessionName)
	}
	if sess, err := s.Registry.Get(sessionName); err == nil {
		sess.ActiveWindow().SetArea(layout.Rect{W: c.Cols, H: c.Rows})
	}
	c.send(ipc.ServerMessage{Kind: ipc.ServerAttached, SessionName: sessionName})
	s.redrawClient(c)
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

func joinArgs(name string, args []string) string {
	line := name
	for _, a := range args {
		line += " " + quoteArg(a)
	}
	return line
}

func quoteArg(a string) string {
	for _, r := range a {
		if r == ' ' || r == '"' || r == '\'' {
			return `"` + a + `"`
		}
	}
	if a == "" {
		return `""`
	}
	return a
}

// redrawClient renders c's attached session's active window and sends a
// Frame message; it sends nothing if c isn't attached to a session.
func (s *Server) redrawClient(c *clientConn) {
	if c.SessionName == "" {
		return
	}
	sess, err := s.Registry.Get(c.SessionName)
	if err != nil {
		c.SessionName = ""
		c.sendDetached("session no longer exists")
		return
	}
	win := sess.ActiveWindow()
	area := layoutRect(c.Rows, c.Cols)
	ov := render.Overlay{Message: c.message}
	frame := render.Frame(win, area, sess.Name, s.toRenderOptions(), ov, time.Now())
	c.send(ipc.ServerMessage{Kind: ipc.ServerFrame, FrameBytes: frame})
}

// redrawAllAttached redraws every client currently attached to a session.
func (s *Server) redrawAllAttached() {
	for _, c := range s.clients {
		s.redrawClient(c)
	}
}

// redrawSession redraws every client attached to the named session.
func (s *Server) redrawSession(name string) {
	for _, c := range s.clients {
		if c.SessionName == name {
			s.redrawClient(c)
		}
	}
}

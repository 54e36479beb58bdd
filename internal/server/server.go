// Package server implements the wtmux server process: the accept loop,
// per-pane output readers, and the single dispatcher goroutine that owns
// all session/window/pane state. Grounded on
// internal/session/daemon.go's Daemon (Unix-socket listener, accept loop,
// ForkDaemon re-exec) and internal/session/attach.go's per-client read
// loop, generalized from one child process per agent to the full
// session/window/pane graph behind one listener per user.
package server

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/blackwitch/wtmux/internal/command"
	"github.com/blackwitch/wtmux/internal/config"
	"github.com/blackwitch/wtmux/internal/mux"
	"github.com/blackwitch/wtmux/internal/render"
	"github.com/blackwitch/wtmux/internal/socketdir"
	"github.com/blackwitch/wtmux/internal/wtlog"
)

// Server owns the registry and executor behind one listener. Every
// mutation of Registry/Exec happens inside a closure run on the
// dispatcher goroutine (run), never directly from a reader goroutine.
type Server struct {
	Registry *mux.Registry
	Exec     *command.Executor
	Log      *wtlog.Logger

	listener net.Listener
	lock     *flock.Flock
	events   chan event

	clients map[string]*clientConn

	shutdown chan struct{}
}

// New creates a Server with a fresh registry and executor, loading
// $HOME/.wtmux.conf if present.
func New(logPath string, logEnabled bool) (*Server, error) {
	reg := mux.NewRegistry()
	log := wtlog.New(logEnabled, logPath)
	exec := command.NewExecutor(reg, log)

	s := &Server{
		Registry: reg,
		Exec:     exec,
		Log:      log,
		events:   make(chan event, 256),
		clients:  make(map[string]*clientConn),
		shutdown: make(chan struct{}),
	}
	exec.Spawn = s.wrapSpawner(exec.Spawn)

	if err := config.LoadFile(config.ConfFilePath(), exec); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return s, nil
}

// Run binds the user's server socket and serves connections until the
// server is killed (kill-server); closing the last session does not end
// it. Blocks until shutdown.
func (s *Server) Run() error {
	sockPath, err := socketdir.ServerSocketPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(socketdir.Dir(), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := socketdir.ProbeSocket(sockPath, "wtmux server"); err != nil {
		return err
	}

	// The dial-based probe above has a race window between two processes
	// both finding the socket absent; an exclusive file lock closes it.
	s.lock = flock.New(sockPath + ".lock")
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire server lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("wtmux server already running (lock %s held)", s.lock.Path())
	}
	defer s.lock.Unlock()

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen on socket: %w", err)
	}
	s.listener = ln
	defer func() {
		ln.Close()
		os.Remove(sockPath)
	}()

	go s.acceptLoop()
	go s.statusTicker()

	s.dispatchLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		go s.handleConn(conn)
	}
}

// statusTicker re-renders every attached client's status bar on
// options.StatusInterval (read once when the server starts) even when
// nothing else changed, so the clock and #{session_name} stay current.
func (s *Server) statusTicker() {
	interval := time.Duration(s.Exec.Options.StatusInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.events <- func(srv *Server) { srv.redrawAllAttached() }
		case <-s.shutdown:
			return
		}
	}
}

// dispatchLoop is the single goroutine that mutates Registry/Exec state;
// every other goroutine communicates with it only through s.events.
func (s *Server) dispatchLoop() {
	for {
		select {
		case ev := <-s.events:
			ev(s)
		case <-s.shutdown:
			s.drainShutdown()
			return
		}
	}
}

// drainShutdown tells every attached client it's being detached before the
// server process exits, per the kill-server Open Question decision
// recorded in the design ledger: clients see a clean Detached message
// rather than an abrupt connection close.
func (s *Server) drainShutdown() {
	for _, c := range s.clients {
		c.sendDetached("server shutting down")
		c.Conn.Close()
	}
}

// Shutdown stops the accept loop and dispatcher; Run returns once the
// dispatcher drains.
func (s *Server) Shutdown() {
	close(s.shutdown)
}

func (s *Server) toRenderOptions() render.Options {
	o := s.Exec.Options
	return render.Options{
		Status:                o.Status,
		StatusLeft:            o.StatusLeft,
		StatusRight:           o.StatusRight,
		StatusStyle:           o.StatusStyle,
		PaneBorderStyle:       o.PaneBorderStyle,
		PaneActiveBorderStyle: o.PaneActiveBorderStyle,
	}
}

// Package ptyio implements the PTY subsystem collaborator: open, spawn,
// resize, close, kill, wait. The core never calls the underlying OS API
// directly; everything goes through this package, which is free to be
// swapped for a ConPTY-backed implementation without touching
// pane/session logic.
package ptyio

import (
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// PTY owns a master file descriptor and the child process attached to its slave.
type PTY struct {
	Master *os.File
	Cmd    *exec.Cmd
}

// Open starts command (with args) attached to a new PTY of the given size.
// cwd and env follow exec.Cmd conventions (empty cwd = inherit, nil env =
// inherit os.Environ()).
func Open(command string, args []string, cwd string, env []string, rows, cols int) (*PTY, error) {
	cmd := exec.Command(command, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	if env != nil {
		cmd.Env = env
	}
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}
	return &PTY{Master: master, Cmd: cmd}, nil
}

// Resize changes the PTY's window size. Safe to call concurrently with reads/writes.
func (p *PTY) Resize(rows, cols int) error {
	return pty.Setsize(p.Master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Read reads child output from the PTY master.
func (p *PTY) Read(buf []byte) (int, error) {
	return p.Master.Read(buf)
}

// Write writes to the PTY master (child stdin). Callers that need a
// deadline should use WriteTimeout instead; plain Write may block forever
// if the child stops reading.
func (p *PTY) Write(buf []byte) (int, error) {
	return p.Master.Write(buf)
}

// ErrWriteTimeout is returned by WriteTimeout when the child doesn't drain
// its input within the deadline.
var ErrWriteTimeout = &timeoutError{}

type timeoutError struct{}

func (*timeoutError) Error() string { return "pty write timeout" }

// WriteTimeout writes to the PTY master, giving up after timeout. The
// dispatcher uses this for all input forwarding so a hung child can never
// block it indefinitely.
func (p *PTY) WriteTimeout(buf []byte, timeout time.Duration) (int, error) {
	done := make(chan struct{})
	var n int
	var err error
	go func() {
		n, err = p.Master.Write(buf)
		close(done)
	}()
	select {
	case <-done:
		return n, err
	case <-time.After(timeout):
		return 0, ErrWriteTimeout
	}
}

// Close closes the PTY master. It does not kill the child; callers that
// want both should call Kill first.
func (p *PTY) Close() error {
	return p.Master.Close()
}

// Kill terminates the child process.
func (p *PTY) Kill() error {
	if p.Cmd.Process == nil {
		return nil
	}
	return p.Cmd.Process.Kill()
}

// Wait blocks until the child exits and returns its exit code.
func (p *PTY) Wait() int {
	err := p.Cmd.Wait()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

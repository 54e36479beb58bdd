// Package mux implements the Session/Window/Pane object graph and its
// lifecycle invariants: exclusive pane ownership, last-active tracking,
// window/session indices, and pane-death policy.
package mux

import (
	"time"

	"github.com/blackwitch/wtmux/internal/copymode"
	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/ptyio"
)

// Pane is one PTY + child process + emulator, owned by exactly one Window
//. Grounded on virtualterminal.VT's ownership shape (PTY handle
// plus emulator plus activity timestamps), generalized from one VT per
// daemon to one emulator per pane.
type Pane struct {
	ID int

	PTY *ptyio.PTY
	Emu *emulator.Emulator

	CopyMode *copymode.State

	Dead       bool
	ExitCode   int
	CreatedAt  time.Time
	LastActive time.Time

	Command string
}

// NewPane wraps an already-started PTY and emulator into a Pane with a
// fresh id.
func NewPane(id int, pty *ptyio.PTY, emu *emulator.Emulator, command string) *Pane {
	now := time.Now()
	return &Pane{
		ID:         id,
		PTY:        pty,
		Emu:        emu,
		Command:    command,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Touch records activity.
func (p *Pane) Touch() { p.LastActive = time.Now() }

// EnterCopyMode freezes the pane's view for vi-subset navigation. No-op
// if already in copy mode.
func (p *Pane) EnterCopyMode(wrapSearch bool) {
	if p.CopyMode != nil {
		return
	}
	p.CopyMode = copymode.New(p.Emu.History(), p.Emu.Snapshot(), wrapSearch)
}

// ExitCopyMode resumes the live view.
func (p *Pane) ExitCopyMode() { p.CopyMode = nil }

// InCopyMode reports whether the pane is currently in copy mode.
func (p *Pane) InCopyMode() bool { return p.CopyMode != nil }

// MarkDead records that the child exited; callers are
// responsible for removing the pane from its window.
func (p *Pane) MarkDead(exitCode int) {
	p.Dead = true
	p.ExitCode = exitCode
}

// Kill terminates the child and closes the PTY. Does not
// remove the pane from its window; callers do that.
func (p *Pane) Kill() {
	if p.PTY == nil {
		return
	}
	p.PTY.Kill()
	p.PTY.Close()
	p.Dead = true
}

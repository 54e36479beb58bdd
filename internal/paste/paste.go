// Package paste implements the LIFO paste-buffer stack:
// byte strings with an optional name, where the unnamed paste-buffer
// command always pops the most recently pushed entry without removing it.
package paste

import "github.com/blackwitch/wtmux/internal/wterr"

// Buffer is one paste-buffer entry.
type Buffer struct {
	Name string // empty for anonymous buffers
	Body []byte
}

// Stack is a LIFO paste-buffer stack. The zero value is ready to use.
type Stack struct {
	entries []Buffer
}

// Push adds a new buffer to the top of the stack (e.g. after a copy-mode
// Enter). An empty name is allowed; named buffers need not be unique —
// pushing shadows any earlier entry of the same name until popped.
func (s *Stack) Push(name string, body []byte) {
	s.entries = append(s.entries, Buffer{Name: name, Body: body})
}

// Top returns the most recently pushed buffer without removing it (tmux
// semantics for the unnamed paste-buffer command).
func (s *Stack) Top() (Buffer, error) {
	if len(s.entries) == 0 {
		return Buffer{}, wterr.New(wterr.TargetNotFound, "paste stack is empty")
	}
	return s.entries[len(s.entries)-1], nil
}

// Named returns the most recently pushed buffer with the given name.
func (s *Stack) Named(name string) (Buffer, error) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name == name {
			return s.entries[i], nil
		}
	}
	return Buffer{}, wterr.New(wterr.TargetNotFound, "no paste buffer named %q", name)
}

// Len returns the number of buffers on the stack.
func (s *Stack) Len() int { return len(s.entries) }

// Delete removes the most recently pushed buffer with the given name.
func (s *Stack) Delete(name string) error {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return wterr.New(wterr.TargetNotFound, "no paste buffer named %q", name)
}

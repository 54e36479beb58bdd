package mux

import (
	"sort"

	"github.com/blackwitch/wtmux/internal/wterr"
)

// Registry is the server-wide set of sessions, keyed by unique name.
// Session names are unique; rename fails if the target name already
// exists.
type Registry struct {
	Sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{Sessions: make(map[string]*Session)}
}

// AddSession registers a new session, failing if the name is taken.
func (r *Registry) AddSession(s *Session) error {
	if _, exists := r.Sessions[s.Name]; exists {
		return wterr.New(wterr.Conflict, "session %q already exists", s.Name)
	}
	r.Sessions[s.Name] = s
	return nil
}

// Get returns the named session, or a TargetNotFound error.
func (r *Registry) Get(name string) (*Session, error) {
	s, ok := r.Sessions[name]
	if !ok {
		return nil, wterr.New(wterr.TargetNotFound, "no session %q", name)
	}
	return s, nil
}

// Rename moves a session to a new name, failing if the new name is taken
//.
func (r *Registry) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	s, err := r.Get(oldName)
	if err != nil {
		return err
	}
	if _, exists := r.Sessions[newName]; exists {
		return wterr.New(wterr.Conflict, "session %q already exists", newName)
	}
	delete(r.Sessions, oldName)
	s.Rename(newName)
	r.Sessions[newName] = s
	return nil
}

// Kill removes a session from the registry.
func (r *Registry) Kill(name string) error {
	if _, ok := r.Sessions[name]; !ok {
		return wterr.New(wterr.TargetNotFound, "no session %q", name)
	}
	delete(r.Sessions, name)
	return nil
}

// List returns sessions sorted by name, for the list-sessions command and
// the SessionList IPC message.
func (r *Registry) List() []*Session {
	names := make([]string, 0, len(r.Sessions))
	for name := range r.Sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Session, len(names))
	for i, name := range names {
		out[i] = r.Sessions[name]
	}
	return out
}

// Empty reports whether the server has no sessions left.
func (r *Registry) Empty() bool { return len(r.Sessions) == 0 }

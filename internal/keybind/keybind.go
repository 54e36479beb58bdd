// Package keybind implements the key-binding tables and prefix state
// machine: a chord is (modifier mask, key code); two
// tables, "prefix" and "root"; and a per-client Normal/Prefixed state
// machine with bell-on-unknown-chord and no timeout on the prefix wait
// itself.
package keybind

import "fmt"

// Modifier is a bitmask of chord modifiers.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << iota
	ModAlt
	ModShift
)

// KeyCode identifies a key independent of modifiers: a printable rune, or
// one of the named special keys below.
type KeyCode int32

const (
	// Printable runes use their own rune value as KeyCode (always >= 0x20),
	// so 'a' is KeyCode('a'); the named special keys are negative, counting
	// down from KeySpecialBase.
	KeySpecialBase KeyCode = -1000 - iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPgUp
	KeyPgDn
	KeyHome
	KeyEnd
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace
)

// Chord is a (modifier mask, key code) pair — one key binding table entry.
type Chord struct {
	Mod Modifier
	Key KeyCode
}

// Table is a named set of chord → command-string bindings.
type Table struct {
	Name     string
	bindings map[Chord]string
}

// NewTable creates an empty binding table.
func NewTable(name string) *Table {
	return &Table{Name: name, bindings: make(map[Chord]string)}
}

// Bind installs or overwrites a binding.
func (t *Table) Bind(c Chord, command string) { t.bindings[c] = command }

// Unbind removes a binding, if present.
func (t *Table) Unbind(c Chord) { delete(t.bindings, c) }

// Lookup returns the command bound to c, if any.
func (t *Table) Lookup(c Chord) (string, bool) {
	cmd, ok := t.bindings[c]
	return cmd, ok
}

// Bindings returns a copy of every (chord, command) pair, for list-keys.
func (t *Table) Bindings() map[Chord]string {
	out := make(map[Chord]string, len(t.bindings))
	for k, v := range t.bindings {
		out[k] = v
	}
	return out
}

// ClientState is the Normal/Prefixed state machine for one attached
// client. Normal -> (prefix chord observed) -> Prefixed ->
// (next chord) -> Normal. An unknown chord while Prefixed triggers a bell
// and returns to Normal. There is no timeout on the Prefixed wait itself.
type ClientState int

const (
	Normal ClientState = iota
	Prefixed
)

// Dispatcher holds a client's prefix/root tables, prefix chord, and
// current state, and resolves an incoming chord to a Result: a command to
// run, a bell, or Forward when the chord goes to the pane as input.
type Dispatcher struct {
	Prefix *Table
	Root   *Table

	PrefixChord Chord
	state       ClientState
}

// NewDispatcher creates a dispatcher with the given prefix chord and
// empty tables.
func NewDispatcher(prefixChord Chord) *Dispatcher {
	return &Dispatcher{
		Prefix:      NewTable("prefix"),
		Root:        NewTable("root"),
		PrefixChord: prefixChord,
	}
}

// Result describes what a Dispatcher.Handle call decided.
type Result struct {
	Command string // non-empty if a command should run
	Bell    bool   // true if an unknown chord was seen while Prefixed
	Forward bool   // true if the chord should be forwarded as raw input
}

// Handle advances the state machine for one incoming chord.
func (d *Dispatcher) Handle(c Chord) Result {
	switch d.state {
	case Normal:
		if cmd, ok := d.Root.Lookup(c); ok {
			return Result{Command: cmd}
		}
		if c == d.PrefixChord {
			d.state = Prefixed
			return Result{}
		}
		return Result{Forward: true}
	case Prefixed:
		d.state = Normal
		if cmd, ok := d.Prefix.Lookup(c); ok {
			return Result{Command: cmd}
		}
		return Result{Bell: true}
	}
	return Result{Forward: true}
}

// State returns the dispatcher's current state, for tests/diagnostics.
func (d *Dispatcher) State() ClientState { return d.state }

// String renders a chord in tmux-like notation (C-b, M-x, Up, a).
func (c Chord) String() string {
	s := ""
	if c.Mod&ModCtrl != 0 {
		s += "C-"
	}
	if c.Mod&ModAlt != 0 {
		s += "M-"
	}
	if c.Mod&ModShift != 0 {
		s += "S-"
	}
	return s + keyName(c.Key)
}

func keyName(k KeyCode) string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyPgUp:
		return "PgUp"
	case KeyPgDn:
		return "PgDn"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "BSpace"
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	}
	if k <= KeyF1 && k >= KeyF12 {
		return fmt.Sprintf("F%d", int(KeyF1-k)+1)
	}
	if k >= 0x20 {
		return string(rune(k))
	}
	return fmt.Sprintf("KeyCode(%d)", int(k))
}

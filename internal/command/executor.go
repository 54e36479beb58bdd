// Package command implements the command grammar: a line of
// shell-like tokens naming an operation plus flags, dispatched against the
// session registry. Grounded on the original exec-a-line-of-tokens
// pattern (internal/session/attach.go's command parsing) generalized from a
// single fixed command set to the full tmux-style table the design names.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwitch/wtmux/internal/emulator"
	"github.com/blackwitch/wtmux/internal/keybind"
	"github.com/blackwitch/wtmux/internal/layout"
	"github.com/blackwitch/wtmux/internal/mux"
	"github.com/blackwitch/wtmux/internal/paste"
	"github.com/blackwitch/wtmux/internal/ptyio"
	"github.com/blackwitch/wtmux/internal/wterr"
	"github.com/blackwitch/wtmux/internal/wtlog"
)

// Spawner opens a new pane's PTY + emulator pair. The default implementation
// uses ptyio.Open and emulator.New directly; tests substitute a fake so no
// child process is actually started.
type Spawner func(opts *Options, rows, cols int, command string) (*mux.Pane, error)

// DefaultSpawner opens a real PTY running command in the new pane, or
// opts.DefaultShell if command is empty.
func DefaultSpawner(nextID func() int) Spawner {
	return func(opts *Options, rows, cols int, command string) (*mux.Pane, error) {
		if command == "" {
			command = opts.DefaultShell
		}
		pty, err := ptyio.Open(command, nil, "", nil, rows, cols)
		if err != nil {
			return nil, wterr.Wrap(wterr.SpawnFailed, err, "spawn %q", command)
		}
		emu := emulator.New(rows, cols, pty.Master)
		return mux.NewPane(nextID(), pty, emu, command), nil
	}
}

// Executor holds everything a Dispatch call needs: the session registry, the
// key-binding tables, the paste stack, option state and an activity log.
// One Executor is shared by every attached client; Dispatch is not
// goroutine-safe on its own and must run on the single dispatcher thread
// that owns the registry.
type Executor struct {
	Registry *mux.Registry
	Keys     *keybind.Dispatcher
	Paste    *paste.Stack
	Options  *Options
	Log      *wtlog.Logger

	Spawn      Spawner
	nextPaneID int

	// DefaultRows/DefaultCols size new top-level sessions/windows when no
	// attached client size is known yet.
	DefaultRows, DefaultCols int
}

// NewExecutor wires a fresh Executor around the given registry with default
// options and an anonymous (non-persistent) pane id counter.
func NewExecutor(reg *mux.Registry, log *wtlog.Logger) *Executor {
	opts := NewDefaultOptions()
	e := &Executor{
		Registry:    reg,
		Keys:        keybind.NewDispatcher(opts.Prefix),
		Paste:       &paste.Stack{},
		Options:     opts,
		Log:         log,
		DefaultRows: 24,
		DefaultCols: 80,
	}
	e.Spawn = DefaultSpawner(e.allocatePaneID)
	return e
}

func (e *Executor) allocatePaneID() int {
	e.nextPaneID++
	return e.nextPaneID
}

// Dispatch tokenizes and executes one command line on behalf of client,
// optionally scoped to sessionName ("" if the client isn't attached to
// anything yet, e.g. before new-session). rows/cols is the attaching
// client's current terminal size (or e.DefaultRows/DefaultCols when no
// client is attached yet, e.g. loading the startup config); it sizes any
// pane new-session/new-window/split-window spawns and scopes
// select-pane/resize-pane's geometry to the window's actual area instead
// of a fixed fallback. It returns a message for a display-message-style
// overlay, or an error the caller renders the same way.
func (e *Executor) Dispatch(clientID, sessionName string, rows, cols int, line string) (string, error) {
	args, err := Tokenize(line)
	if err != nil {
		return "", wterr.Wrap(wterr.ParseError, err, "parse command")
	}
	if len(args) == 0 {
		return "", nil
	}
	name, rest := args[0], args[1:]

	msg, err := e.run(clientID, sessionName, rows, cols, name, rest)
	if err != nil {
		if e.Log != nil {
			kind := "unknown"
			if werr, ok := wterr.As(err); ok {
				kind = werr.Kind.String()
			}
			e.Log.CommandError(clientID, line, kind, err.Error())
		}
		return "", err
	}
	return msg, nil
}

func (e *Executor) run(clientID, sessionName string, rows, cols int, name string, args []string) (string, error) {
	switch name {
	case "new-session":
		return e.newSession(rows, cols, args)
	case "attach-session":
		return e.attachSession(args)
	case "list-sessions":
		return e.listSessions()
	case "kill-session":
		return e.killSession(args)
	case "rename-session":
		return e.renameSession(sessionName, args)
	case "new-window":
		return e.newWindow(sessionName, rows, cols, args)
	case "kill-window":
		return e.killWindow(sessionName, args)
	case "select-window":
		return e.selectWindow(sessionName, args)
	case "next-window":
		return e.selectWindowRelative(sessionName, 1)
	case "previous-window":
		return e.selectWindowRelative(sessionName, -1)
	case "rename-window":
		return e.renameWindow(sessionName, args)
	case "split-window":
		return e.splitWindow(sessionName, rows, cols, args)
	case "select-pane":
		return e.selectPane(sessionName, args)
	case "kill-pane":
		return e.killPane(sessionName, args)
	case "last-pane":
		return e.lastPane(sessionName)
	case "swap-pane":
		return e.swapPane(sessionName, args)
	case "resize-pane":
		return e.resizePane(sessionName, args)
	case "next-layout":
		return e.nextLayout(sessionName)
	case "copy-mode":
		return e.copyMode(sessionName, args)
	case "paste-buffer":
		return e.pasteBuffer(sessionName, args)
	case "detach-client":
		return "detached", nil
	case "set-option":
		return e.setOption(args)
	case "bind-key":
		return e.bindKey(args)
	case "unbind-key":
		return e.unbindKey(args)
	case "list-keys":
		return e.listKeys()
	case "display-message":
		return strings.Join(args, " "), nil
	case "clock-mode":
		return e.clockMode(sessionName)
	case "start-server":
		return "server already running", nil
	default:
		return "", wterr.New(wterr.ParseError, "unknown command %q", name)
	}
}

// --- session-scoped commands ---

func (e *Executor) newSession(rows, cols int, args []string) (string, error) {
	name, command := "", ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-s":
			i++
			if i < len(args) {
				name = args[i]
			}
		case "-c":
			i++
			if i < len(args) {
				command = args[i]
			}
		}
	}
	if name == "" {
		name = fmt.Sprintf("%d", len(e.Registry.Sessions)+1)
	}
	rows, cols = e.resolveSize(rows, cols)
	pane, err := e.Spawn(e.Options, rows, cols, command)
	if err != nil {
		return "", err
	}
	sess := mux.NewSession(name, e.Options.BaseIndex, pane)
	sess.RenumberWindows = e.Options.RenumberWindows
	sess.ActiveWindow().SetArea(layout.Rect{W: cols, H: rows})
	if err := e.Registry.AddSession(sess); err != nil {
		return "", err
	}
	if e.Log != nil {
		e.Log.PaneSpawned(name, sess.ActiveWindowID, pane.ID, pane.Command)
	}
	return fmt.Sprintf("created session %s", name), nil
}

// resolveSize falls back to DefaultRows/DefaultCols when the caller has no
// attached-client size yet (e.g. a command running from the startup config,
// before any client connects).
func (e *Executor) resolveSize(rows, cols int) (int, int) {
	if rows <= 0 || cols <= 0 {
		return e.DefaultRows, e.DefaultCols
	}
	return rows, cols
}

func (e *Executor) attachSession(args []string) (string, error) {
	name := targetFlag(args, "-t")
	if name == "" {
		return "", wterr.New(wterr.ParseError, "attach-session: -t is required")
	}
	if _, err := e.Registry.Get(name); err != nil {
		return "", err
	}
	return name, nil
}

func (e *Executor) listSessions() (string, error) {
	var b strings.Builder
	for _, s := range e.Registry.List() {
		fmt.Fprintf(&b, "%s: %d windows\n", s.Name, len(s.Windows))
	}
	return b.String(), nil
}

func (e *Executor) killSession(args []string) (string, error) {
	name := targetFlag(args, "-t")
	if name == "" {
		return "", wterr.New(wterr.ParseError, "kill-session: -t is required")
	}
	sess, err := e.Registry.Get(name)
	if err != nil {
		return "", err
	}
	for _, w := range sess.Windows {
		for _, p := range w.Panes {
			p.Kill()
		}
	}
	if err := e.Registry.Kill(name); err != nil {
		return "", err
	}
	return fmt.Sprintf("killed session %s", name), nil
}

func (e *Executor) renameSession(sessionName string, args []string) (string, error) {
	newName := ""
	if len(args) > 0 {
		newName = args[len(args)-1]
	}
	if newName == "" {
		return "", wterr.New(wterr.ParseError, "rename-session: new name required")
	}
	if err := e.Registry.Rename(sessionName, newName); err != nil {
		return "", err
	}
	return newName, nil
}

// --- window-scoped commands ---

func (e *Executor) session(sessionName string) (*mux.Session, error) {
	if sessionName == "" {
		return nil, wterr.New(wterr.TargetNotFound, "no active session")
	}
	return e.Registry.Get(sessionName)
}

func (e *Executor) newWindow(sessionName string, rows, cols int, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	name, command := "", ""
	idx := -1
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			i++
			if i < len(args) {
				name = args[i]
			}
		case "-c":
			i++
			if i < len(args) {
				command = args[i]
			}
		}
	}
	rows, cols = e.resolveSize(rows, cols)
	pane, err := e.Spawn(e.Options, rows, cols, command)
	if err != nil {
		return "", err
	}
	w, err := sess.AddWindow(idx, name, pane)
	if err != nil {
		return "", err
	}
	w.SetArea(layout.Rect{W: cols, H: rows})
	if e.Log != nil {
		e.Log.PaneSpawned(sess.Name, w.Index, pane.ID, pane.Command)
	}
	return fmt.Sprintf("new-window %d", w.Index), nil
}

func (e *Executor) killWindow(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	idx := sess.ActiveWindowID
	if t := targetFlag(args, "-t"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			return "", wterr.Wrap(wterr.ParseError, err, "kill-window: bad index %q", t)
		}
		idx = n
	}
	w, ok := sess.Windows[idx]
	if !ok {
		return "", wterr.New(wterr.TargetNotFound, "no window %d", idx)
	}
	for _, p := range w.Panes {
		p.Kill()
	}
	empty, err := sess.KillWindow(idx)
	if err != nil {
		return "", err
	}
	if empty {
		e.Registry.Kill(sess.Name)
		return "session ended", nil
	}
	return fmt.Sprintf("killed window %d", idx), nil
}

func (e *Executor) selectWindow(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	target := targetFlag(args, "-t")
	switch target {
	case "+":
		return "", sess.SelectWindowRelative(1)
	case "-":
		return "", sess.SelectWindowRelative(-1)
	case "!":
		last := sess.LastActiveWindow
		return "", sess.SelectWindow(last)
	default:
		n, err := strconv.Atoi(target)
		if err != nil {
			return "", wterr.Wrap(wterr.ParseError, err, "select-window: bad target %q", target)
		}
		return "", sess.SelectWindow(n)
	}
}

func (e *Executor) selectWindowRelative(sessionName string, delta int) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	return "", sess.SelectWindowRelative(delta)
}

func (e *Executor) renameWindow(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", wterr.New(wterr.ParseError, "rename-window: name required")
	}
	sess.ActiveWindow().Name = args[len(args)-1]
	return sess.ActiveWindow().Name, nil
}

func (e *Executor) clockMode(sessionName string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	w.ClockMode = !w.ClockMode
	return "", nil
}

// --- pane-scoped commands ---

func (e *Executor) splitWindow(sessionName string, rows, cols int, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	orientation := layout.Vertical
	command := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h":
			orientation = layout.Horizontal
		case "-v":
			orientation = layout.Vertical
		case "-c":
			i++
			if i < len(args) {
				command = args[i]
			}
		}
	}
	if rows > 0 && cols > 0 {
		w.Area = layout.Rect{W: cols, H: rows}
	}
	spawnRows, spawnCols := e.resolveSize(rows, cols)
	pane, err := e.Spawn(e.Options, spawnRows, spawnCols, command)
	if err != nil {
		return "", err
	}
	if err := w.AddPane(pane, orientation, true); err != nil {
		return "", err
	}
	if e.Log != nil {
		e.Log.PaneSpawned(sess.Name, w.Index, pane.ID, pane.Command)
	}
	return "", nil
}

func (e *Executor) selectPane(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	for _, dirFlag := range []struct {
		flag string
		dir  layout.Direction
	}{
		{"-U", layout.DirUp}, {"-D", layout.DirDown}, {"-L", layout.DirLeft}, {"-R", layout.DirRight},
	} {
		if containsFlag(args, dirFlag.flag) {
			area := w.Area
			if area.W <= 0 || area.H <= 0 {
				area = layout.Rect{W: e.DefaultCols, H: e.DefaultRows}
			}
			id, ok := layout.Navigate(w.Layout, area, w.ActivePaneID, dirFlag.dir, nil)
			if !ok {
				return "", wterr.New(wterr.TargetNotFound, "no pane in that direction")
			}
			return "", w.SelectPane(id)
		}
	}
	if t := targetFlag(args, "-t"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			return "", wterr.Wrap(wterr.ParseError, err, "select-pane: bad target %q", t)
		}
		return "", w.SelectPane(n)
	}
	return "", wterr.New(wterr.ParseError, "select-pane: missing direction or -t")
}

func (e *Executor) killPane(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	id := w.ActivePaneID
	if t := targetFlag(args, "-t"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			return "", wterr.Wrap(wterr.ParseError, err, "kill-pane: bad target %q", t)
		}
		id = n
	}
	p, ok := w.Panes[id]
	if !ok {
		return "", wterr.New(wterr.TargetNotFound, "no pane %d", id)
	}
	p.Kill()
	empty, err := w.RemovePane(id)
	if err != nil {
		return "", err
	}
	if e.Log != nil {
		e.Log.PaneExited(sess.Name, w.Index, id, p.ExitCode)
	}
	if empty {
		sessEmpty, err := sess.KillWindow(w.Index)
		if err != nil {
			return "", err
		}
		if sessEmpty {
			e.Registry.Kill(sess.Name)
			return "session ended", nil
		}
	}
	return "", nil
}

func (e *Executor) lastPane(sessionName string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	return "", w.SelectPane(w.LastActivePaneID)
}

func (e *Executor) swapPane(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	dir := 1
	if containsFlag(args, "-U") {
		dir = -1
	}
	leaves := layout.Leaves(w.Layout)
	ids := make([]int, len(leaves))
	pos := -1
	for i, l := range leaves {
		ids[i] = l.PaneID
		if l.PaneID == w.ActivePaneID {
			pos = i
		}
	}
	if pos < 0 || len(ids) < 2 {
		return "", wterr.New(wterr.TargetNotFound, "no pane to swap with")
	}
	other := ids[((pos+dir)%len(ids)+len(ids))%len(ids)]
	newTree, err := layout.Swap(w.Layout, w.ActivePaneID, other)
	if err != nil {
		return "", err
	}
	w.Layout = newTree
	w.ResizePanes()
	return "", nil
}

func (e *Executor) resizePane(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	if containsFlag(args, "-Z") {
		w.ToggleZoom()
		return "", nil
	}
	amount := 5
	for _, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			amount = n
		}
	}
	rows, cols := w.Area.H, w.Area.W
	if rows <= 0 || cols <= 0 {
		rows, cols = e.DefaultRows, e.DefaultCols
	}
	delta := amount
	axis := cols
	if containsFlag(args, "-U") {
		delta, axis = -amount, rows
	} else if containsFlag(args, "-D") {
		delta, axis = amount, rows
	} else if containsFlag(args, "-L") {
		delta, axis = -amount, cols
	} else if containsFlag(args, "-R") {
		delta, axis = amount, cols
	}
	newTree, err := layout.Resize(w.Layout, w.ActivePaneID, axis, delta)
	if err != nil {
		return "", err
	}
	w.Layout = newTree
	w.ResizePanes()
	return "", nil
}

func (e *Executor) nextLayout(sessionName string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	// Cycling requires knowing the current preset; since the tree doesn't
	// track which preset produced it, next-layout always advances from
	// EvenHorizontal, so every call applies EvenVertical. Repeated calls do
	// not step on to the other presets.
	w.Layout = layout.ApplyPreset(w.Layout, layout.NextPreset(layout.EvenHorizontal))
	w.ResizePanes()
	return "", nil
}

func (e *Executor) copyMode(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	p, ok := w.Panes[w.ActivePaneID]
	if !ok {
		return "", wterr.New(wterr.TargetNotFound, "no active pane")
	}
	if containsFlag(args, "-u") {
		p.ExitCopyMode()
		return "", nil
	}
	p.EnterCopyMode(e.Options.WrapSearch)
	return "", nil
}

func (e *Executor) pasteBuffer(sessionName string, args []string) (string, error) {
	sess, err := e.session(sessionName)
	if err != nil {
		return "", err
	}
	w := sess.ActiveWindow()
	p, ok := w.Panes[w.ActivePaneID]
	if !ok {
		return "", wterr.New(wterr.TargetNotFound, "no active pane")
	}
	var buf paste.Buffer
	if name := targetFlag(args, "-b"); name != "" {
		buf, err = e.Paste.Named(name)
	} else {
		buf, err = e.Paste.Top()
	}
	if err != nil {
		return "", err
	}
	if p.PTY != nil {
		p.PTY.Write(buf.Body)
	}
	return "", nil
}

// --- option/key commands ---

func (e *Executor) setOption(args []string) (string, error) {
	args = stripFlag(args, "-g")
	if len(args) < 2 {
		return "", wterr.New(wterr.ParseError, "set-option: name and value required")
	}
	name, value := args[0], strings.Join(args[1:], " ")
	if err := e.Options.Set(name, value); err != nil {
		return "", wterr.Wrap(wterr.ParseError, err, "set-option")
	}
	if name == "prefix" {
		e.Keys.PrefixChord = e.Options.Prefix
	}
	return fmt.Sprintf("%s=%s", name, value), nil
}

func (e *Executor) bindKey(args []string) (string, error) {
	rootTable := containsFlag(args, "-n")
	args = stripFlag(args, "-n")
	if len(args) < 2 {
		return "", wterr.New(wterr.ParseError, "bind-key: chord and command required")
	}
	chord, err := ParseChord(args[0])
	if err != nil {
		return "", wterr.Wrap(wterr.ParseError, err, "bind-key")
	}
	cmd := strings.Join(args[1:], " ")
	if rootTable {
		e.Keys.Root.Bind(chord, cmd)
	} else {
		e.Keys.Prefix.Bind(chord, cmd)
	}
	return "", nil
}

func (e *Executor) unbindKey(args []string) (string, error) {
	rootTable := containsFlag(args, "-n")
	args = stripFlag(args, "-n")
	if len(args) < 1 {
		return "", wterr.New(wterr.ParseError, "unbind-key: chord required")
	}
	chord, err := ParseChord(args[0])
	if err != nil {
		return "", wterr.Wrap(wterr.ParseError, err, "unbind-key")
	}
	if rootTable {
		e.Keys.Root.Unbind(chord)
	} else {
		e.Keys.Prefix.Unbind(chord)
	}
	return "", nil
}

func (e *Executor) listKeys() (string, error) {
	var b strings.Builder
	for chord, cmd := range e.Keys.Prefix.Bindings() {
		fmt.Fprintf(&b, "bind-key %s %s\n", chord.String(), cmd)
	}
	for chord, cmd := range e.Keys.Root.Bindings() {
		fmt.Fprintf(&b, "bind-key -n %s %s\n", chord.String(), cmd)
	}
	return b.String(), nil
}

// --- flag helpers ---

func targetFlag(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func stripFlag(args []string, flag string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == flag {
			continue
		}
		out = append(out, a)
	}
	return out
}

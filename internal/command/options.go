package command

import (
	"fmt"
	"time"

	"github.com/blackwitch/wtmux/internal/keybind"
)

// Options is the server's typed option map. config.LoadFile
// parses .wtmux.conf into one of these via repeated set-option dispatch;
// NewDefaultOptions returns one set to the documented defaults.
type Options struct {
	Prefix                 keybind.Chord
	DefaultShell           string
	DefaultTerminal        string
	BaseIndex              int
	HistoryLimit           int
	EscapeTime             time.Duration
	Status                 bool
	StatusLeft             string
	StatusRight            string
	StatusStyle            string
	StatusInterval         int
	Mouse                  bool
	RenumberWindows        bool
	AutomaticRename        bool
	PaneBorderStyle        string
	PaneActiveBorderStyle  string
	DisplayTime            time.Duration
	WrapSearch             bool
}

// NewDefaultOptions returns the documented default option values.
func NewDefaultOptions() *Options {
	return &Options{
		Prefix:                keybind.Chord{Mod: keybind.ModCtrl, Key: keybind.KeyCode('b')},
		DefaultShell:          "%COMSPEC%",
		DefaultTerminal:       "xterm-256color",
		BaseIndex:             0,
		HistoryLimit:          2000,
		EscapeTime:            500 * time.Millisecond,
		Status:                true,
		StatusLeft:            "[#{session_name}] ",
		StatusRight:           " %H:%M %Y-%m-%d",
		StatusStyle:           "fg=black,bg=green",
		StatusInterval:        1,
		Mouse:                 false,
		RenumberWindows:       false,
		AutomaticRename:       true,
		PaneBorderStyle:       "default",
		PaneActiveBorderStyle: "fg=green",
		DisplayTime:           750 * time.Millisecond,
		WrapSearch:            true,
	}
}

// Set applies a `set-option <name> <value>` pair. Unknown options return
// an error (caller surfaces it as a message
// overlay); recognized options are parsed into their typed field.
func (o *Options) Set(name, value string) error {
	switch name {
	case "prefix":
		chord, err := ParseChord(value)
		if err != nil {
			return err
		}
		o.Prefix = chord
	case "default-shell":
		o.DefaultShell = value
	case "default-terminal":
		o.DefaultTerminal = value
	case "base-index":
		n, err := parseIntOption(name, value)
		if err != nil {
			return err
		}
		o.BaseIndex = n
	case "history-limit":
		n, err := parseIntOption(name, value)
		if err != nil {
			return err
		}
		o.HistoryLimit = n
	case "escape-time":
		n, err := parseIntOption(name, value)
		if err != nil {
			return err
		}
		o.EscapeTime = time.Duration(n) * time.Millisecond
	case "status":
		b, err := parseBoolOption(name, value)
		if err != nil {
			return err
		}
		o.Status = b
	case "status-left":
		o.StatusLeft = value
	case "status-right":
		o.StatusRight = value
	case "status-style":
		o.StatusStyle = value
	case "status-interval":
		n, err := parseIntOption(name, value)
		if err != nil {
			return err
		}
		o.StatusInterval = n
	case "mouse":
		b, err := parseBoolOption(name, value)
		if err != nil {
			return err
		}
		o.Mouse = b
	case "renumber-windows":
		b, err := parseBoolOption(name, value)
		if err != nil {
			return err
		}
		o.RenumberWindows = b
	case "automatic-rename":
		b, err := parseBoolOption(name, value)
		if err != nil {
			return err
		}
		o.AutomaticRename = b
	case "pane-border-style":
		o.PaneBorderStyle = value
	case "pane-active-border-style":
		o.PaneActiveBorderStyle = value
	case "display-time":
		n, err := parseIntOption(name, value)
		if err != nil {
			return err
		}
		o.DisplayTime = time.Duration(n) * time.Millisecond
	case "wrap-search":
		b, err := parseBoolOption(name, value)
		if err != nil {
			return err
		}
		o.WrapSearch = b
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}

func parseIntOption(name, value string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("option %q: invalid integer %q", name, value)
	}
	return n, nil
}

func parseBoolOption(name, value string) (bool, error) {
	switch value {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("option %q: invalid boolean %q", name, value)
}

// ParseChord parses a tmux-style chord spec like "C-b", "M-x", "Up", "a"
// into a keybind.Chord.
func ParseChord(s string) (keybind.Chord, error) {
	var mod keybind.Modifier
	for len(s) > 2 && s[1] == '-' {
		switch s[0] {
		case 'C', 'c':
			mod |= keybind.ModCtrl
		case 'M', 'm':
			mod |= keybind.ModAlt
		case 'S', 's':
			mod |= keybind.ModShift
		default:
			return keybind.Chord{}, fmt.Errorf("invalid chord %q", s)
		}
		s = s[2:]
	}
	key, ok := namedKeys[s]
	if !ok {
		if len(s) == 1 {
			key = keybind.KeyCode(s[0])
		} else {
			return keybind.Chord{}, fmt.Errorf("invalid key %q", s)
		}
	}
	return keybind.Chord{Mod: mod, Key: key}, nil
}

var namedKeys = map[string]keybind.KeyCode{
	"Up": keybind.KeyUp, "Down": keybind.KeyDown, "Left": keybind.KeyLeft, "Right": keybind.KeyRight,
	"PgUp": keybind.KeyPgUp, "PgDn": keybind.KeyPgDn, "Home": keybind.KeyHome, "End": keybind.KeyEnd,
	"Enter": keybind.KeyEnter, "Tab": keybind.KeyTab, "BSpace": keybind.KeyBackspace,
	"Escape": keybind.KeyEscape, "Space": keybind.KeySpace,
	"F1": keybind.KeyF1, "F2": keybind.KeyF2, "F3": keybind.KeyF3, "F4": keybind.KeyF4,
	"F5": keybind.KeyF5, "F6": keybind.KeyF6, "F7": keybind.KeyF7, "F8": keybind.KeyF8,
	"F9": keybind.KeyF9, "F10": keybind.KeyF10, "F11": keybind.KeyF11, "F12": keybind.KeyF12,
}

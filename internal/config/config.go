// Package config loads $HOME/.wtmux.conf and writes the
// YAML-backed starter config used by `wtmux init`. Grounded on the
// original config.go (ConfigDir/Load/LoadFrom shape, yaml.v3 for the
// structured file) generalized from a bridges/users config blob to
// wtmux's line-oriented command-grammar config.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blackwitch/wtmux/internal/command"
)

// ConfigDir returns the wtmux configuration directory (~/.wtmux/), used
// for the starter-config template and session metadata. The line-oriented
// runtime config itself lives at ~/.wtmux.conf, not under
// this directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wtmux")
	}
	return filepath.Join(home, ".wtmux")
}

// ConfFilePath returns the path to $HOME/.wtmux.conf.
func ConfFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wtmux.conf"
	}
	return filepath.Join(home, ".wtmux.conf")
}

// LoadFile parses path as a wtmux config file and
// applies every line to exec against e. A missing file is not an error —
// a fresh server simply runs with NewDefaultOptions.
func LoadFile(path string, exec *command.Executor) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	lines, starts := joinContinuations(f)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := exec.Dispatch("config", "", exec.DefaultRows, exec.DefaultCols, line); err != nil {
			return fmt.Errorf("%s:%d: %w", path, starts[i], err)
		}
	}
	return nil
}

// joinContinuations scans f line by line, splicing any line ending in an
// unescaped trailing backslash onto the next, and returns the resulting
// logical lines paired with their starting (1-based) line number.
func joinContinuations(f *os.File) ([]string, []int) {
	var out []string
	var starts []int
	var pending strings.Builder
	lineNo, start := 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		if start == 0 {
			start = lineNo
		}
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) && !strings.HasSuffix(line, `\\`) {
			pending.WriteString(strings.TrimSuffix(line, `\`))
			continue
		}
		pending.WriteString(line)
		out = append(out, pending.String())
		starts = append(starts, start)
		start = 0
		pending.Reset()
	}
	if pending.Len() > 0 {
		out = append(out, pending.String())
		starts = append(starts, start)
	}
	return out, starts
}

// StarterConfig is the YAML document `wtmux init` writes to
// ~/.wtmux/init.yaml before translating it into ~/.wtmux.conf lines, a
// more approachable authoring format than hand-writing the line-oriented
// option grammar directly.
type StarterConfig struct {
	Prefix          string            `yaml:"prefix"`
	DefaultShell    string            `yaml:"default_shell"`
	DefaultTerminal string            `yaml:"default_terminal"`
	Status          bool              `yaml:"status"`
	Options         map[string]string `yaml:"options,omitempty"`
}

// DefaultStarterConfig mirrors command.NewDefaultOptions in YAML form.
func DefaultStarterConfig() StarterConfig {
	opts := command.NewDefaultOptions()
	return StarterConfig{
		Prefix:          opts.Prefix.String(),
		DefaultShell:    opts.DefaultShell,
		DefaultTerminal: opts.DefaultTerminal,
		Status:          opts.Status,
	}
}

// WriteStarterConfig writes cfg as YAML to ~/.wtmux/init.yaml, creating
// the directory if needed.
func WriteStarterConfig(cfg StarterConfig) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal starter config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "init.yaml"), data, 0o644)
}

// ToConfLines renders cfg as .wtmux.conf command lines.
func (cfg StarterConfig) ToConfLines() []string {
	lines := []string{
		fmt.Sprintf("set-option prefix %s", cfg.Prefix),
		fmt.Sprintf("set-option default-shell %s", cfg.DefaultShell),
		fmt.Sprintf("set-option default-terminal %s", cfg.DefaultTerminal),
	}
	if cfg.Status {
		lines = append(lines, "set-option status on")
	} else {
		lines = append(lines, "set-option status off")
	}
	for name, value := range cfg.Options {
		lines = append(lines, fmt.Sprintf("set-option %s %s", name, value))
	}
	return lines
}

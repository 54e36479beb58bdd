package wtlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestPaneSpawned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(true, path)
	defer l.Close()

	l.PaneSpawned("s1", 0, 3, "cmd.exe")

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var e struct {
		Event   string `json:"event"`
		Session string `json:"session"`
		Pane    int    `json:"pane"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Event != "pane_spawned" || e.Session != "s1" || e.Pane != 3 {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestDisabledLoggerNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	l := New(false, path)
	defer l.Close()

	l.PaneSpawned("s1", 0, 1, "cmd")

	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected no file to be created when disabled")
	}
}

package ptyio

import (
	"runtime"
	"testing"
	"time"
)

func TestOpenEchoAndResize(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test shell assumes a POSIX /bin/sh; the real server targets ConPTY on Windows")
	}
	p, err := Open("/bin/sh", []string{"-c", "cat"}, "", nil, 24, 80)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Kill()

	if err := p.Resize(30, 100); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	if _, err := p.WriteTimeout([]byte("hello\n"), time.Second); err != nil {
		t.Fatalf("WriteTimeout: %v", err)
	}

	buf := make([]byte, 64)
	p.Master.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := p.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected echoed output")
	}
}

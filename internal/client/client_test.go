package client

import (
	"bytes"
	"os"
	"testing"

	"github.com/blackwitch/wtmux/internal/ipc"
)

func TestFormatDebugKey(t *testing.T) {
	cases := []struct {
		b    byte
		want string
	}{
		{0x1B, "esc"},
		{0x0D, "cr"},
		{0x0A, "lf"},
		{0x09, "tab"},
		{0x7F, "del"},
		{0x01, "0x01"},
		{'a', "a"},
		{0xFF, "0xff"},
	}
	for _, c := range cases {
		if got := formatDebugKey(c.b); got != c.want {
			t.Errorf("formatDebugKey(%#x) = %q, want %q", c.b, got, c.want)
		}
	}
}

func TestIsTruthyEnv(t *testing.T) {
	const key = "WTMUX_TEST_TRUTHY"
	cases := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"1", true},
		{"yes", true},
	}
	for _, c := range cases {
		os.Setenv(key, c.val)
		if got := isTruthyEnv(key); got != c.want {
			t.Errorf("isTruthyEnv with %q = %v, want %v", c.val, got, c.want)
		}
	}
	os.Unsetenv(key)
	if isTruthyEnv(key) {
		t.Error("isTruthyEnv should be false when unset")
	}
}

func TestReadInputForwardsBytes(t *testing.T) {
	oldStdin := os.Stdin
	stdinR, stdinW, _ := os.Pipe()
	os.Stdin = stdinR
	defer func() { os.Stdin = oldStdin }()

	go func() {
		stdinW.Write([]byte("hi"))
		stdinW.Close()
	}()

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		readInput(&buf, false)
		close(done)
	}()
	<-done

	payload, err := ipc.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	msg, err := ipc.DecodeClientMessage(payload)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.Kind != ipc.ClientInput || string(msg.Bytes) != "hi" {
		t.Errorf("got %+v, want ClientInput \"hi\"", msg)
	}
}

func TestReadFramesStopsOnDetached(t *testing.T) {
	var wire bytes.Buffer
	ipc.WriteFrame(&wire, ipc.EncodeServerMessage(ipc.ServerMessage{Kind: ipc.ServerFrame, FrameBytes: []byte("hello")}))
	ipc.WriteFrame(&wire, ipc.EncodeServerMessage(ipc.ServerMessage{Kind: ipc.ServerDetached}))

	var out bytes.Buffer
	if err := readFrames(&wire, &out); err != nil {
		t.Fatalf("readFrames: %v", err)
	}
	if out.String() != "hello" {
		t.Errorf("got %q, want %q", out.String(), "hello")
	}
}

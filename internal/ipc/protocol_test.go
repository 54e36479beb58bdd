package ipc

import (
	"bytes"
	"reflect"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello frame")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestWriteFrameRejectsOversizePayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, make([]byte, MaxFrameSize+1)); err == nil {
		t.Errorf("expected error for oversize payload")
	}
}

func TestClientMessageRoundTripHello(t *testing.T) {
	m := ClientMessage{Kind: ClientHello, ClientVersion: "1.2.3", TermRows: 24, TermCols: 80, TermType: "xterm-256color"}
	encoded := EncodeClientMessage(m)
	got, err := DecodeClientMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestClientMessageRoundTripInput(t *testing.T) {
	m := ClientMessage{Kind: ClientInput, Bytes: []byte{0x1b, '[', 'A'}}
	encoded := EncodeClientMessage(m)
	got, err := DecodeClientMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if !bytes.Equal(got.Bytes, m.Bytes) {
		t.Errorf("Bytes = %v, want %v", got.Bytes, m.Bytes)
	}
}

func TestClientMessageRoundTripAttachSessionNone(t *testing.T) {
	m := ClientMessage{Kind: ClientAttachSession, HasName: false}
	encoded := EncodeClientMessage(m)
	got, err := DecodeClientMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if got.HasName {
		t.Errorf("expected HasName false")
	}
}

func TestServerMessageRoundTripSessionList(t *testing.T) {
	m := ServerMessage{Kind: ServerSessionList, Sessions: []SessionSummary{
		{Name: "work", Windows: 2, Attached: true, CreatedAt: 1000},
		{Name: "scratch", Windows: 1, Attached: false, CreatedAt: 2000},
	}}
	encoded := EncodeServerMessage(m)
	got, err := DecodeServerMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeServerMessage: %v", err)
	}
	if len(got.Sessions) != 2 || got.Sessions[0].Name != "work" || got.Sessions[1].CreatedAt != 2000 {
		t.Errorf("got %+v", got.Sessions)
	}
}

func TestServerMessageRoundTripFrame(t *testing.T) {
	m := ServerMessage{Kind: ServerFrame, FrameBytes: []byte("\x1b[2J\x1b[Hhello")}
	encoded := EncodeServerMessage(m)
	got, err := DecodeServerMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeServerMessage: %v", err)
	}
	if !bytes.Equal(got.FrameBytes, m.FrameBytes) {
		t.Errorf("FrameBytes = %q, want %q", got.FrameBytes, m.FrameBytes)
	}
}

func TestDecodeClientMessageUnknownTagErrors(t *testing.T) {
	if _, err := DecodeClientMessage([]byte{0xff}); err == nil {
		t.Errorf("expected error for unknown tag")
	}
}

func TestDecodeClientMessageTruncatedErrors(t *testing.T) {
	if _, err := DecodeClientMessage([]byte{byte(ClientResize), 0, 0}); err == nil {
		t.Errorf("expected error for truncated payload")
	}
}

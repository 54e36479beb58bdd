package ipc

import (
	"encoding/binary"
	"io"

	"github.com/blackwitch/wtmux/internal/wterr"
)

// MaxFrameSize is the 16 MiB length bound; an overlarge
// frame drops the connection.
const MaxFrameSize = 16 * 1024 * 1024

// WriteFrame writes a length-prefixed frame: 4-byte little-endian length,
// then payload. Grounded on elleryfamilia-thicc's WriteFrame (same
// single-buffer-then-one-write shape), with the length field moved ahead
// of the type byte since wtmux's tag already lives inside payload[0].
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return wterr.New(wterr.IpcError, "frame payload too large: %d > %d", len(payload), MaxFrameSize)
	}
	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(payload)))
	copy(buf[4:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint32(lenBuf)
	if length > MaxFrameSize {
		return nil, wterr.New(wterr.IpcError, "frame payload too large: %d > %d", length, MaxFrameSize)
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// --- encoding primitives ---
//
// Every variant is encoded as [tag:1][fields...]; strings and byte slices
// are length-prefixed with a uint32. This is a hand-rolled tagged union,
// not a general serialization library, because the variant set is small,
// fixed, and needs to match the design's field lists exactly — none of the
// pack's examples pull in a schema-driven codec (protobuf/msgpack/etc) for
// anything this small.

func putString(buf []byte, s string) []byte {
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(s)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, s...)
}

func putBytes(buf []byte, b []byte) []byte {
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(b)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, b...)
}

func getString(payload []byte, offset int) (string, int, error) {
	if offset+4 > len(payload) {
		return "", offset, wterr.New(wterr.IpcError, "truncated string length")
	}
	n := int(binary.LittleEndian.Uint32(payload[offset : offset+4]))
	offset += 4
	if offset+n > len(payload) {
		return "", offset, wterr.New(wterr.IpcError, "truncated string body")
	}
	return string(payload[offset : offset+n]), offset + n, nil
}

func getBytes(payload []byte, offset int) ([]byte, int, error) {
	if offset+4 > len(payload) {
		return nil, offset, wterr.New(wterr.IpcError, "truncated bytes length")
	}
	n := int(binary.LittleEndian.Uint32(payload[offset : offset+4]))
	offset += 4
	if offset+n > len(payload) {
		return nil, offset, wterr.New(wterr.IpcError, "truncated bytes body")
	}
	out := make([]byte, n)
	copy(out, payload[offset:offset+n])
	return out, offset + n, nil
}

func putUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func getUint32(payload []byte, offset int) (uint32, int, error) {
	if offset+4 > len(payload) {
		return 0, offset, wterr.New(wterr.IpcError, "truncated uint32")
	}
	return binary.LittleEndian.Uint32(payload[offset : offset+4]), offset + 4, nil
}

func putBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func getBool(payload []byte, offset int) (bool, int, error) {
	if offset >= len(payload) {
		return false, offset, wterr.New(wterr.IpcError, "truncated bool")
	}
	return payload[offset] != 0, offset + 1, nil
}

// EncodeClientMessage serializes m into a wire payload (without the frame
// length prefix — pass the result to WriteFrame).
func EncodeClientMessage(m ClientMessage) []byte {
	buf := []byte{byte(m.Kind)}
	switch m.Kind {
	case ClientHello:
		buf = putString(buf, m.ClientVersion)
		buf = putUint32(buf, uint32(m.TermRows))
		buf = putUint32(buf, uint32(m.TermCols))
		buf = putString(buf, m.TermType)
	case ClientAttachSession, ClientKillSession:
		buf = putBool(buf, m.HasName)
		buf = putString(buf, m.Name)
	case ClientNewSession:
		buf = putBool(buf, m.HasName)
		buf = putString(buf, m.Name)
		buf = putString(buf, m.Command)
	case ClientListSessions, ClientKillServer, ClientDetach, ClientPing:
		// no fields
	case ClientInput:
		buf = putBytes(buf, m.Bytes)
	case ClientResize:
		buf = putUint32(buf, uint32(m.Rows))
		buf = putUint32(buf, uint32(m.Cols))
	case ClientCommand:
		buf = putString(buf, m.Line)
	}
	return buf
}

// DecodeClientMessage parses a wire payload into a ClientMessage. Any
// malformed payload or unrecognized tag is an IpcError; the caller must
// close the connection in that case.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	if len(payload) == 0 {
		return ClientMessage{}, wterr.New(wterr.IpcError, "empty client message")
	}
	kind := ClientKind(payload[0])
	offset := 1
	m := ClientMessage{Kind: kind}
	var err error
	switch kind {
	case ClientHello:
		var rows, cols uint32
		if m.ClientVersion, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
		if rows, offset, err = getUint32(payload, offset); err != nil {
			return m, err
		}
		if cols, offset, err = getUint32(payload, offset); err != nil {
			return m, err
		}
		m.TermRows, m.TermCols = int(rows), int(cols)
		if m.TermType, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	case ClientAttachSession, ClientKillSession:
		if m.HasName, offset, err = getBool(payload, offset); err != nil {
			return m, err
		}
		if m.Name, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	case ClientNewSession:
		if m.HasName, offset, err = getBool(payload, offset); err != nil {
			return m, err
		}
		if m.Name, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
		if m.Command, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	case ClientListSessions, ClientKillServer, ClientDetach, ClientPing:
		// no fields
	case ClientInput:
		if m.Bytes, offset, err = getBytes(payload, offset); err != nil {
			return m, err
		}
	case ClientResize:
		var rows, cols uint32
		if rows, offset, err = getUint32(payload, offset); err != nil {
			return m, err
		}
		if cols, offset, err = getUint32(payload, offset); err != nil {
			return m, err
		}
		m.Rows, m.Cols = int(rows), int(cols)
	case ClientCommand:
		if m.Line, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	default:
		return m, wterr.New(wterr.IpcError, "unknown client message tag %d", kind)
	}
	_ = offset
	return m, nil
}

// EncodeServerMessage serializes m into a wire payload.
func EncodeServerMessage(m ServerMessage) []byte {
	buf := []byte{byte(m.Kind)}
	switch m.Kind {
	case ServerWelcome:
		buf = putString(buf, m.ServerVersion)
	case ServerFrame:
		buf = putBytes(buf, m.FrameBytes)
	case ServerBell, ServerPong, ServerDetached:
		// no fields
	case ServerMessageText, ServerError:
		buf = putString(buf, m.Text)
	case ServerSessionList:
		buf = putUint32(buf, uint32(len(m.Sessions)))
		for _, s := range m.Sessions {
			buf = putString(buf, s.Name)
			buf = putUint32(buf, uint32(s.Windows))
			buf = putBool(buf, s.Attached)
			buf = putUint32(buf, uint32(s.CreatedAt))
		}
	case ServerAttached:
		buf = putString(buf, m.SessionName)
	}
	return buf
}

// DecodeServerMessage parses a wire payload into a ServerMessage.
func DecodeServerMessage(payload []byte) (ServerMessage, error) {
	if len(payload) == 0 {
		return ServerMessage{}, wterr.New(wterr.IpcError, "empty server message")
	}
	kind := ServerKind(payload[0])
	offset := 1
	m := ServerMessage{Kind: kind}
	var err error
	switch kind {
	case ServerWelcome:
		if m.ServerVersion, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	case ServerFrame:
		if m.FrameBytes, offset, err = getBytes(payload, offset); err != nil {
			return m, err
		}
	case ServerBell, ServerPong, ServerDetached:
		// no fields
	case ServerMessageText, ServerError:
		if m.Text, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	case ServerSessionList:
		var n uint32
		if n, offset, err = getUint32(payload, offset); err != nil {
			return m, err
		}
		m.Sessions = make([]SessionSummary, n)
		for i := uint32(0); i < n; i++ {
			var s SessionSummary
			if s.Name, offset, err = getString(payload, offset); err != nil {
				return m, err
			}
			var windows, createdAt uint32
			if windows, offset, err = getUint32(payload, offset); err != nil {
				return m, err
			}
			s.Windows = int(windows)
			if s.Attached, offset, err = getBool(payload, offset); err != nil {
				return m, err
			}
			if createdAt, offset, err = getUint32(payload, offset); err != nil {
				return m, err
			}
			s.CreatedAt = int64(createdAt)
			m.Sessions[i] = s
		}
	case ServerAttached:
		if m.SessionName, offset, err = getString(payload, offset); err != nil {
			return m, err
		}
	default:
		return m, wterr.New(wterr.IpcError, "unknown server message tag %d", kind)
	}
	_ = offset
	return m, nil
}

// Package ipc implements the client-server wire protocol:
// a local byte stream framed with a 4-byte little-endian length prefix,
// carrying a deterministic binary tagged-union encoding of ClientMessage/
// ServerMessage variants. Grounded on elleryfamilia-thicc's
// internal/session/protocol.go frame format, generalized from its fixed
// 5-variant PTY protocol to the richer variant sets wtmux needs.
package ipc

// ClientKind tags a ClientMessage's variant.
type ClientKind byte

const (
	ClientHello ClientKind = iota + 1
	ClientAttachSession
	ClientNewSession
	ClientListSessions
	ClientKillSession
	ClientKillServer
	ClientInput
	ClientResize
	ClientCommand
	ClientDetach
	ClientPing
)

// ClientMessage is one decoded message sent from client to server.
type ClientMessage struct {
	Kind ClientKind

	// Hello
	ClientVersion string
	TermRows      int
	TermCols      int
	TermType      string

	// AttachSession / NewSession / KillSession
	Name    string
	HasName bool
	Command string

	// Input
	Bytes []byte

	// Resize
	Rows, Cols int

	// Command
	Line string
}

// ServerKind tags a ServerMessage's variant.
type ServerKind byte

const (
	ServerWelcome ServerKind = iota + 1
	ServerFrame
	ServerBell
	ServerMessageText
	ServerSessionList
	ServerAttached
	ServerDetached
	ServerError
	ServerPong
)

// SessionSummary is one entry of a ServerSessionList message.
type SessionSummary struct {
	Name      string
	Windows   int
	Attached  bool
	CreatedAt int64 // unix seconds
}

// ServerMessage is one decoded message sent from server to client.
type ServerMessage struct {
	Kind ServerKind

	ServerVersion string // Welcome
	FrameBytes    []byte // Frame
	Text          string // Message / Error
	Sessions      []SessionSummary
	SessionName   string // Attached
}

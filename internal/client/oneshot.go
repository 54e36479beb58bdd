package client

import (
	"fmt"
	"time"

	"github.com/blackwitch/wtmux/internal/ipc"
)

// Request sends a single ClientMessage to the server at sockPath and
// returns its one ServerMessage reply. Used by the one-shot management
// subcommands (list-sessions, kill-session, kill-server) that don't need
// a terminal attach loop.
func Request(sockPath string, msg ipc.ClientMessage) (ipc.ServerMessage, error) {
	conn, err := dialUnix(sockPath)
	if err != nil {
		return ipc.ServerMessage{}, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))
	if err := sendFramed(conn, msg); err != nil {
		return ipc.ServerMessage{}, fmt.Errorf("send request: %w", err)
	}
	payload, err := ipc.ReadFrame(conn)
	if err != nil {
		return ipc.ServerMessage{}, fmt.Errorf("read reply: %w", err)
	}
	return ipc.DecodeServerMessage(payload)
}

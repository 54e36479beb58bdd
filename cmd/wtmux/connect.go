package main

import (
	"errors"
	"net"
	"os"

	"github.com/blackwitch/wtmux/internal/server"
	"github.com/blackwitch/wtmux/internal/socketdir"
)

// isConnError reports whether err looks like "no server to talk to"
// rather than a command-level failure.
func isConnError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}

// ensureServer returns the path of a running server's socket, forking one
// into the background first if none is listening yet. This mirrors
// tmux's own "new-session starts the server implicitly" behavior.
func ensureServer() (string, error) {
	sockPath, err := socketdir.ServerSocketPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(sockPath); err == nil {
		if conn, dialErr := net.Dial("unix", sockPath); dialErr == nil {
			conn.Close()
			return sockPath, nil
		}
	}
	if err := server.ForkServer(); err != nil {
		return "", err
	}
	return sockPath, nil
}

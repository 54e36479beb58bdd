// Package client implements the attach-loop side of a wtmux session: it
// puts the local terminal into raw mode, forwards keyboard bytes and
// resize events to the server over the Unix-domain socket, and paints
// whatever frame bytes the server sends back. Grounded on
// internal/overlay.Overlay.Run's raw-mode bootstrap (term.MakeRaw,
// SIGWINCH handling via WatchResize, a dedicated read-input goroutine)
// and internal/session/client/render.go's client-side render loop,
// generalized from a single in-process PTY overlay to a thin terminal
// fronting a remote server connection. WTMUX_DEBUG_KEYS=1 echoes every
// input byte to stderr, the same troubleshooting toggle the teacher
// exposed as H2_DEBUG_KEYS.
package client

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/blackwitch/wtmux/internal/ipc"
)

// Attach connects to the server listening at sockPath and runs the
// interactive attach loop until the server detaches the client or the
// connection drops. attachTo is empty to create a new session (named
// newName if non-empty, running newCommand) or non-empty to attach to an
// existing session of that name.
func Attach(sockPath, attachTo, newName, newCommand string) error {
	return attach(sockPath, attachTo, newName, newCommand, isTruthyEnv("WTMUX_DEBUG_KEYS"))
}

// isTruthyEnv reports whether the named environment variable is set to a
// non-empty, non-"0"/"false" value, mirroring the teacher's own
// H2_DEBUG_KEYS convention.
func isTruthyEnv(name string) bool {
	v := os.Getenv(name)
	return v != "" && v != "0" && v != "false"
}

func attach(sockPath, attachTo, newName, newCommand string, debugKeys bool) error {
	conn, err := dial(sockPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	hello := ipc.ClientMessage{Kind: ipc.ClientHello, ClientVersion: "1", TermRows: rows, TermCols: cols, TermType: os.Getenv("TERM")}
	if err := sendFramed(conn, hello); err != nil {
		return err
	}

	restore, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	defer term.Restore(fd, restore)

	if attachTo == "" {
		msg := ipc.ClientMessage{Kind: ipc.ClientNewSession, Command: newCommand, Name: newName, HasName: newName != ""}
		if err := sendFramed(conn, msg); err != nil {
			return err
		}
	} else {
		msg := ipc.ClientMessage{Kind: ipc.ClientAttachSession, Name: attachTo, HasName: true}
		if err := sendFramed(conn, msg); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go watchResize(conn, fd, sigCh)

	// readInput closing the connection (stdin EOF, or a write failure) is
	// what unblocks readFrames's otherwise-indefinite ReadFrame call.
	go func() {
		readInput(conn, debugKeys)
		conn.Close()
	}()

	return readFrames(conn, os.Stdout)
}

func dial(sockPath string) (net.Conn, error) {
	return dialUnix(sockPath)
}

// readInput copies raw keyboard bytes into ClientInput messages until
// stdin closes or the write fails. With debugKeys set, each byte is also
// echoed to stderr so it doesn't collide with the server's frame stream
// on stdout.
func readInput(conn io.Writer, debugKeys bool) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if debugKeys {
				echoDebugKeys(chunk)
			}
			if sendErr := sendFramed(conn, ipc.ClientMessage{Kind: ipc.ClientInput, Bytes: chunk}); sendErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// echoDebugKeys writes a formatted representation of data to stderr.
func echoDebugKeys(data []byte) {
	for _, b := range data {
		fmt.Fprintf(os.Stderr, "\r\nkey: %s", formatDebugKey(b))
	}
}

// watchResize sends a ClientResize message on every SIGWINCH.
func watchResize(conn io.Writer, fd int, sigCh <-chan os.Signal) {
	for range sigCh {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			continue
		}
		sendFramed(conn, ipc.ClientMessage{Kind: ipc.ClientResize, Rows: rows, Cols: cols})
	}
}

// readFrames reads ServerMessages until the connection closes or a
// ServerDetached arrives.
func readFrames(conn io.Reader, out io.Writer) error {
	for {
		payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return nil
		}
		msg, err := ipc.DecodeServerMessage(payload)
		if err != nil {
			return fmt.Errorf("decode server message: %w", err)
		}
		switch msg.Kind {
		case ipc.ServerFrame:
			out.Write(msg.FrameBytes)
		case ipc.ServerBell:
			out.Write([]byte("\a"))
		case ipc.ServerDetached:
			return nil
		case ipc.ServerError:
			fmt.Fprintf(os.Stderr, "\r\nwtmux: %s\r\n", msg.Text)
		}
	}
}

func sendFramed(w io.Writer, msg ipc.ClientMessage) error {
	return ipc.WriteFrame(w, ipc.EncodeClientMessage(msg))
}

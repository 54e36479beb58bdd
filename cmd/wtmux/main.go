// Command wtmux is the wtmux client/server entrypoint: session management
// subcommands (new-session, attach, list-sessions, kill-session,
// start-server, kill-server) plus the hidden _server subcommand a
// backgrounded server process re-execs into. Grounded on the prior
// project's cmd/h2's flat main->NewRootCmd().Execute() shape.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wtmux:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to a process exit code: 2 for
// server-unreachable, 3 for any other failure. Errors from cobra's own
// argument parsing (unknown command or flag) also come back from Execute
// and map to 3; exit code 1 is not produced.
func exitCodeFor(err error) int {
	if isConnError(err) {
		return 2
	}
	return 3
}

// requireTTY refuses to attach a non-interactive stdin/stdout pair, the
// same guard the prior project's isatty-based overlay bootstrap applies
// before entering raw mode.
func requireTTY() error {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("wtmux attach requires an interactive terminal")
	}
	return nil
}

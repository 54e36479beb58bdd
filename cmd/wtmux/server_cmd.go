package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/config"
	"github.com/blackwitch/wtmux/internal/server"
)

// newHiddenServerCmd runs the server in the foreground on the current
// process. This is the subcommand server.ForkServer re-execs into after
// backgrounding itself; it's hidden because a user never invokes it
// directly (use start-server, new-session, or attach instead).
func newHiddenServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "_server",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath := filepath.Join(config.ConfigDir(), "server.log")
			srv, err := server.New(logPath, true)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
}

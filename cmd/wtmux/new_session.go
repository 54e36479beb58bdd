package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/client"
)

func newNewSessionCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:     "new-session [command]",
		Aliases: []string{"new"},
		Short:   "Start a new session and attach to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTTY(); err != nil {
				return err
			}
			sockPath, err := ensureServer()
			if err != nil {
				return err
			}
			return client.Attach(sockPath, "", name, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&name, "session-name", "s", "", "name for the new session")
	return cmd
}

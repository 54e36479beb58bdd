package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/client"
	"github.com/blackwitch/wtmux/internal/ipc"
	"github.com/blackwitch/wtmux/internal/socketdir"
)

func newKillSessionCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "kill-session",
		Short: "Kill a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return fmt.Errorf("kill-session requires -t <session-name>")
			}
			sockPath, err := socketdir.ServerSocketPath()
			if err != nil {
				return err
			}
			reply, err := client.Request(sockPath, ipc.ClientMessage{Kind: ipc.ClientKillSession, Name: target, HasName: true})
			if err != nil {
				return fmt.Errorf("no server running: %w", err)
			}
			if reply.Kind == ipc.ServerError {
				return fmt.Errorf("%s", reply.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "session to kill")
	return cmd
}

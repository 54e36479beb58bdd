package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/client"
	"github.com/blackwitch/wtmux/internal/ipc"
	"github.com/blackwitch/wtmux/internal/socketdir"
)

func newKillServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill-server",
		Short: "Kill the wtmux server and all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sockPath, err := socketdir.ServerSocketPath()
			if err != nil {
				return err
			}
			if _, err := client.Request(sockPath, ipc.ClientMessage{Kind: ipc.ClientKillServer}); err != nil {
				return fmt.Errorf("no server running: %w", err)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/client"
	"github.com/blackwitch/wtmux/internal/ipc"
	"github.com/blackwitch/wtmux/internal/socketdir"
)

func newListSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-sessions",
		Short: "List sessions on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListSessions(cmd)
		},
	}
}

// newLsAlias mirrors the prior project's hidden "ls" delegate command.
func newLsAlias(listCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "ls",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListSessions(cmd)
		},
	}
}

func runListSessions(cmd *cobra.Command) error {
	sockPath, err := socketdir.ServerSocketPath()
	if err != nil {
		return err
	}
	reply, err := client.Request(sockPath, ipc.ClientMessage{Kind: ipc.ClientListSessions})
	if err != nil {
		return fmt.Errorf("no server running: %w", err)
	}
	if reply.Kind == ipc.ServerError {
		return fmt.Errorf("%s", reply.Text)
	}
	if len(reply.Sessions) == 0 {
		cmd.Println("no sessions")
		return nil
	}
	for _, s := range reply.Sessions {
		attached := ""
		if s.Attached {
			attached = " (attached)"
		}
		age := time.Since(time.Unix(s.CreatedAt, 0)).Round(time.Second)
		cmd.Printf("%s: %d windows (created %s ago)%s\n", s.Name, s.Windows, age, attached)
	}
	return nil
}

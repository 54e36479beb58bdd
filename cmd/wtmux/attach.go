package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/client"
)

func newAttachCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:     "attach",
		Aliases: []string{"a"},
		Short:   "Attach to an existing session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTTY(); err != nil {
				return err
			}
			if target == "" {
				return fmt.Errorf("attach requires -t <session-name>")
			}
			sockPath, err := ensureServer()
			if err != nil {
				return err
			}
			return client.Attach(sockPath, target, "", "")
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "session to attach to")
	return cmd
}

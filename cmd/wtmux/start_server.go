package main

import (
	"github.com/spf13/cobra"
)

func newStartServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-server",
		Short: "Start the wtmux server without attaching",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := ensureServer()
			return err
		},
	}
}

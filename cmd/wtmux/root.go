package main

import (
	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/version"
)

// newRootCmd builds the wtmux command tree. Grounded on the prior
// project's internal/cmd/root.go (PersistentPreRunE gate, flat list of
// AddCommand calls), generalized from one agent-wrapper command set to
// wtmux's session/window/pane management verbs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wtmux",
		Short:        "A terminal multiplexer",
		Long:         "wtmux is a terminal multiplexer: sessions persist in a background server and survive a detached client.",
		SilenceUsage: true,
	}

	lsCmd := newListSessionsCmd()
	root.AddCommand(
		newNewSessionCmd(),
		newAttachCmd(),
		lsCmd,
		newLsAlias(lsCmd),
		newKillSessionCmd(),
		newStartServerCmd(),
		newKillServerCmd(),
		newHiddenServerCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wtmux version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.DisplayVersion())
			return nil
		},
	}
}

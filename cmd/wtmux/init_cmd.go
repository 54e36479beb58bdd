package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwitch/wtmux/internal/config"
)

// newInitCmd writes a starter ~/.wtmux/init.yaml plus the .wtmux.conf it
// translates into, refusing to clobber an existing config file.
func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			confPath := config.ConfFilePath()
			if !force {
				if _, err := os.Stat(confPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", confPath)
				}
			}

			starter := config.DefaultStarterConfig()
			if err := config.WriteStarterConfig(starter); err != nil {
				return err
			}

			lines := starter.ToConfLines()
			data := ""
			for _, line := range lines {
				data += line + "\n"
			}
			if err := os.WriteFile(confPath, []byte(data), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", confPath, err)
			}
			cmd.Printf("wrote %s\n", confPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// ABOUTME: init command: writes a commented sample config file
// ABOUTME: Refuses to overwrite an existing file unless --force is given

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/2389/taskboard/internal/config"
)

// defaultConfigPath returns $XDG_CONFIG_HOME/taskboard/config.yaml or the
// ~/.config equivalent.
func defaultConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "taskboard", "config.yaml")
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.Sample), 0644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config written to %s\n", path)
			fmt.Fprintln(out, "\nTo start the server:")
			fmt.Fprintln(out, "  taskboard serve")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

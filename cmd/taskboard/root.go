// ABOUTME: Root cobra command and shared command plumbing
// ABOUTME: Loads configuration, sets up logging and opens store sessions for subcommands

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/2389/taskboard/internal/config"
	"github.com/2389/taskboard/internal/server"
	"github.com/2389/taskboard/internal/store"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	usedPath   string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Single-user task tracker",
		Long: `taskboard keeps a list of tasks in a local SQLite database.

Run "taskboard serve" for the web UI, or use the list, add, done, rm,
export and import commands to work with the same database from a shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return nil
			}
			return a.load(cmd)
		},
	}
	root.Version = version
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: $TASKBOARD_CONFIG or ~/.config/taskboard/config.yaml)")

	root.AddCommand(
		newServeCmd(a, version),
		newInitCmd(),
		newListCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newRmCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// load resolves configuration and installs the logger.
func (a *app) load(cmd *cobra.Command) error {
	cfg, used, err := config.Resolve(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.usedPath = used
	a.logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	return nil
}

// withSession opens the store, runs fn in one session and closes both.
func (a *app) withSession(ctx context.Context, fn func(store.Session) error) error {
	s, err := server.OpenStore(a.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	sess, err := s.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring session: %w", err)
	}
	defer sess.Close()

	return fn(sess)
}

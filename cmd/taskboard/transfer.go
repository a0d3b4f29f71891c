// ABOUTME: export and import commands for the JSON tasks document
// ABOUTME: Export writes a file (or stdout); import is all-or-nothing with an optional dry run

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389/taskboard/internal/codec"
	"github.com/2389/taskboard/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			err := a.withSession(cmd.Context(), func(sess store.Session) error {
				var err error
				data, err = codec.Export(cmd.Context(), sess)
				return err
			})
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			path := output
			if path == "" {
				path = a.cfg.Export.Filename
			}
			if err := codec.WriteFile(path, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported tasks to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: export.filename)`)
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a JSON file",
		Long:  `Import tasks from a JSON file ("-" reads stdin). Every task is added as pending. If any element is invalid nothing is imported.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			out := cmd.OutOrStdout()
			if dryRun {
				drafts, err := codec.DecodeDrafts(r)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d tasks would be imported\n", len(drafts))
				return nil
			}

			return a.withSession(cmd.Context(), func(sess store.Session) error {
				tasks, err := codec.Import(cmd.Context(), sess, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %d tasks\n", len(tasks))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "validate the file without importing")
	return cmd
}

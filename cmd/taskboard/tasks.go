// ABOUTME: list, add, done and rm commands working directly on the task store
// ABOUTME: Output mirrors the web UI: one line per task with a colored status

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/taskboard/internal/store"
)

// formatTask writes "{ID:>4}  {STATUS}  {TITLE}" with the status colored
// like the web UI.
func formatTask(w io.Writer, t *store.Task) {
	status := color.RedString("Pending  ")
	if t.Completed {
		status = color.GreenString("Completed")
	}
	fmt.Fprintf(w, "%4d  %s  %s\n", t.ID, status, normalizeTitle(t.Title))
}

// normalizeTitle keeps each task on one line.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	return strings.ReplaceAll(title, "\n", " ")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.withSession(cmd.Context(), func(sess store.Session) error {
				tasks, err := sess.ListTasks(cmd.Context())
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(tasks)
				}

				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks available.")
					return nil
				}
				for _, t := range tasks {
					formatTask(out, t)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON, ids included")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return a.withSession(cmd.Context(), func(sess store.Session) error {
				task, err := sess.CreateTask(cmd.Context(), title, description)
				if errors.Is(err, store.ErrEmptyTitle) {
					return errors.New("title is required to add a task")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", task.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description (Markdown)")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(sess store.Session) error {
				task, err := sess.CompleteTask(cmd.Context(), id)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no task with id %d", id)
				}
				if err != nil {
					return err
				}
				formatTask(cmd.OutOrStdout(), task)
				return nil
			})
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a completed task",
		Long:  "Delete a task. Pending tasks are only deleted with --force, matching the web UI which offers Delete on completed tasks only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(sess store.Session) error {
				if !force {
					tasks, err := sess.ListTasks(cmd.Context())
					if err != nil {
						return err
					}
					for _, t := range tasks {
						if t.ID == id && !t.Completed {
							return fmt.Errorf("task %d is still pending (use --force to delete anyway)", id)
						}
					}
				}

				task, err := sess.DeleteTask(cmd.Context(), id)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no task with id %d", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d: %s\n", task.ID, normalizeTitle(task.Title))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if the task is pending")
	return cmd
}

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/todo-sync/config"
	"github.com/example/todo-sync/domain/display"
	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/modules/mcptools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func (c *cli) listCmd() *cobra.Command {
	var expand []int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show pending and completed tasks",
		Long: `Show both task lists. Summaries are colored by deadline:
blue when due before the end of tomorrow, red when overdue.
Use --expand to show the details of specific tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			snap := engine.Snapshot()

			view := display.NewViewState()
			view.Expand(expand...)
			view.Prune(snap.IDs())

			return render(cmd.OutOrStdout(), c.output, snap, view, time.Now())
		},
	}

	cmd.Flags().Int64SliceVar(&expand, "expand", nil, "Task ids to show with details")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var summary, description, deadline string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pending task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := task.Draft{Summary: summary, Description: description}
			if deadline != "" {
				dl, err := display.ParseDate(deadline)
				if err != nil {
					return err
				}
				draft.Deadline = &dl
			}

			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			created, err := engine.AddTask(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d, due %s\n", created.ID, display.FormatDate(created.Deadline))
			return nil
		},
	}

	cmd.Flags().StringVarP(&summary, "summary", "s", "", "Short title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer notes")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Due date, YYYY-MM-DD (required)")
	return cmd
}

func (c *cli) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a pending task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.CompleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d completed\n", id)
			return nil
		},
	}
}

func (c *cli) reworkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rework ID",
		Short: "Move a completed task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.ReworkTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is pending again\n", id)
			return nil
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var summary, description, deadline string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the summary, description or deadline of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var fields task.Fields
			if cmd.Flags().Changed("summary") {
				fields.Summary = &summary
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			if cmd.Flags().Changed("deadline") {
				dl, err := display.ParseDate(deadline)
				if err != nil {
					return err
				}
				fields.Deadline = &dl
			}
			if fields.Summary == nil && fields.Description == nil && fields.Deadline == nil {
				return fmt.Errorf("nothing to change: pass --summary, --description or --deadline")
			}

			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.EditTask(cmd.Context(), id, fields); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d updated\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&summary, "summary", "s", "", "New summary")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New due date, YYYY-MM-DD")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted\n", id)
			return nil
		},
	}
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd.Context())
			if err != nil {
				return err
			}
			return server.ServeStdio(mcptools.NewServer(engine, Version))
		},
	}
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables taskctl and the server read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := config.Usage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usage)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

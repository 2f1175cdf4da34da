package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/ports"
)

func newTodoCommand(opts *rootOptions) *cobra.Command {
	todoCmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage the to-do list",
		Long:    "Add, complete and delete tasks stored in gui_todo_data.json",
	}

	todoCmd.AddCommand(
		newTodoAddCommand(opts),
		newTodoListCommand(opts),
		newTodoDoneCommand(opts),
		newTodoDeleteCommand(opts),
		newTodoStatsCommand(opts),
		newTodoTauntCommand(opts),
	)

	return todoCmd
}

func categoryNames() string {
	names := make([]string, len(entities.Categories))
	for i, c := range entities.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func newTodoAddCommand(opts *rootOptions) *cobra.Command {
	var category, deadline string

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ports.CreateTaskRequest{
				Task:     strings.Join(args, " "),
				Category: entities.Category(category),
				Deadline: deadline,
			}

			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				task, err := svc.CreateTask(cmd.Context(), req)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added task %q [%s] due %s\n", task.Task, task.Category, task.Deadline)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(entities.CategoryImportant), "category ("+categoryNames()+")")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", entities.DefaultDeadline, "deadline as HH:MM")
	return cmd
}

func newTodoListCommand(opts *rootOptions) *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ports.TaskFilter{Search: search, Status: ports.TaskStatusFilter(status)}
			switch filter.Status {
			case ports.TaskStatusAll, ports.TaskStatusPending, ports.TaskStatusDone:
			default:
				return fmt.Errorf("unknown status %q (all, pending, done)", status)
			}

			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				all, err := svc.ListTasks(cmd.Context(), ports.TaskFilter{Status: ports.TaskStatusAll})
				if err != nil {
					return err
				}

				renderTasks(cmd.OutOrStdout(), services.FilterTasks(all, filter), taskPositions(all))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only tasks whose text or category contains this")
	cmd.Flags().StringVar(&status, "status", string(ports.TaskStatusAll), "all, pending or done")
	return cmd
}

func newTodoDoneCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <selector>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				task, err := svc.MarkDone(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as done\n", task.Task)
				return nil
			})
		},
	}
}

func newTodoDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <selector>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				task, err := svc.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete task %q?", task.Task)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}

				if _, err := svc.DeleteTask(cmd.Context(), task.ID); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %q\n", task.Task)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newTodoStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				stats, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}

				renderStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func newTodoTauntCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "taunt",
		Short: "List pending tasks whose deadline has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				svc, err := app.TaskService()
				if err != nil {
					return err
				}

				report, err := svc.Taunts(cmd.Context())
				if err != nil {
					return err
				}

				renderTaunts(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

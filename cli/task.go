package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gtdagent/model"
	"gtdagent/store"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Capture, list and triage tasks",
	}

	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskMoveCmd())
	cmd.AddCommand(taskRmCmd())
	return cmd
}

func taskAddCmd() *cobra.Command {
	var status, priority, description string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Capture a task (into the inbox by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := model.TaskStatus(status)
			if !st.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}
			pr := model.Priority(priority)
			if !pr.Valid() {
				return fmt.Errorf("invalid priority %q", priority)
			}

			_, s, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := s.AddTask(cmd.Context(), model.Task{
				Title:       args[0],
				Description: description,
				Status:      st,
				Priority:    pr,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Captured %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", string(model.StatusInbox), "initial status")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVarP(&description, "description", "d", "", "optional details")
	return cmd
}

func taskListCmd() *cobra.Command {
	var status, projectID, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			tasks := s.Tasks()
			if status != "" {
				st := model.TaskStatus(status)
				if !st.Valid() {
					return fmt.Errorf("invalid status %q", status)
				}
				tasks = s.TasksByStatus(st)
			}
			if projectID != "" {
				filtered := []model.Task{}
				for _, t := range tasks {
					if t.ProjectID == projectID {
						filtered = append(filtered, t)
					}
				}
				tasks = filtered
			}
			printTasks(cmd.OutOrStdout(), store.Search(tasks, search))
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks in this status")
	cmd.Flags().StringVar(&projectID, "project", "", "only tasks of this project id")
	cmd.Flags().StringVarP(&search, "search", "q", "", "text to match in title or description")
	return cmd
}

func taskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [status]",
		Short: "Move a task to another list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := model.TaskStatus(args[1])
			if !st.Valid() {
				return fmt.Errorf("invalid status %q", args[1])
			}

			_, s, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			task, ok := s.Task(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			task.Status = st
			if st != model.StatusCompleted {
				task.CompletedAt = nil
			}
			if _, err := s.UpdateTask(cmd.Context(), task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", task.ID, st)
			return nil
		},
	}
}

func taskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if _, ok := s.Task(args[0]); !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := s.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, due, t.Title)
	}
	tw.Flush()
}

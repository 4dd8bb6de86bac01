package cli

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/spf13/cobra"
)

// projectTask parses the "<projectId> <taskId>" prefix shared by the task
// subcommands.
func projectTask(args []string) (int64, int64, error) {
	projectID, err := parseID(args[0], "project")
	if err != nil {
		return 0, 0, err
	}
	taskID, err := parseID(args[1], "task")
	if err != nil {
		return 0, 0, err
	}
	return projectID, taskID, nil
}

func newTasksCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage the tasks of a project",
	}

	list := &cobra.Command{
		Use:   "list <projectId>",
		Short: "List a project's tasks, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			ts, err := a.board.Tasks(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			a.view.tasks(ts)
			return nil
		},
	}

	var addDescription string
	add := &cobra.Command{
		Use:   "add <projectId> <title>",
		Short: "Add a task in status todo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			t, err := a.board.AddTask(cmd.Context(), projectID, args[1], addDescription)
			if err != nil {
				return err
			}
			a.view.ok("Added task #%d", t.ID)
			a.view.task(t)
			return nil
		},
	}
	add.Flags().StringVarP(&addDescription, "description", "d", "", "task description")

	status := &cobra.Command{
		Use:   "status <projectId> <taskId> <" + strings.Join(models.TaskStatuses, "|") + ">",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, taskID, err := projectTask(args)
			if err != nil {
				return err
			}
			t, err := a.board.SetStatus(cmd.Context(), projectID, taskID, args[2])
			if err != nil {
				return err
			}
			a.view.task(t)
			return nil
		},
	}

	var patch struct{ title, description, status string }
	edit := &cobra.Command{
		Use:   "edit <projectId> <taskId>",
		Short: "Change a task's title, description or status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, taskID, err := projectTask(args)
			if err != nil {
				return err
			}

			var p models.TaskPatch
			if cmd.Flags().Changed("title") {
				p.Title = &patch.title
			}
			if cmd.Flags().Changed("description") {
				p.Description = &patch.description
			}
			if cmd.Flags().Changed("status") {
				p.Status = &patch.status
			}
			if p.Title == nil && p.Description == nil && p.Status == nil {
				return errors.New("nothing to change, pass --title, --description or --status")
			}

			t, err := a.board.UpdateTask(cmd.Context(), projectID, taskID, p)
			if err != nil {
				return err
			}
			a.view.task(t)
			return nil
		},
	}
	edit.Flags().StringVar(&patch.title, "title", "", "new title")
	edit.Flags().StringVarP(&patch.description, "description", "d", "", "new description")
	edit.Flags().StringVar(&patch.status, "status", "", "new status")

	del := &cobra.Command{
		Use:   "delete <projectId> <taskId>",
		Short: "Delete a task and its comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, taskID, err := projectTask(args)
			if err != nil {
				return err
			}
			if err := a.board.DeleteTask(cmd.Context(), projectID, taskID); err != nil {
				return err
			}
			a.view.ok("Deleted task #%d", taskID)
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <projectId> <taskId> [userId...]",
		Short: "Replace a task's assignees; no user ids clears them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, taskID, err := projectTask(args)
			if err != nil {
				return err
			}
			userIDs := make([]int64, 0, len(args)-2)
			for _, s := range args[2:] {
				uid, err := parseID(s, "user")
				if err != nil {
					return err
				}
				userIDs = append(userIDs, uid)
			}
			t, err := a.board.Assign(cmd.Context(), projectID, taskID, userIDs)
			if err != nil {
				return err
			}
			a.view.task(t)
			return nil
		},
	}

	cmd.AddCommand(list, add, status, edit, del, assign)
	return cmd
}

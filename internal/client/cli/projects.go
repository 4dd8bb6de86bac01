package cli

import (
	"github.com/spf13/cobra"
)

func newProjectsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List, create, show and delete projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := a.board.Projects(cmd.Context())
			if err != nil {
				return err
			}
			a.view.projects(ps)
			return nil
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a project owned by you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.board.CreateProject(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			a.view.ok("Created project #%d %s", p.ID, p.Title)
			return nil
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "project description")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			p, tasks, err := a.board.Project(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			a.view.project(p, tasks)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project you own, with its tasks and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			if err := a.board.DeleteProject(cmd.Context(), projectID); err != nil {
				return err
			}
			a.view.ok("Deleted project #%d", projectID)
			return nil
		},
	}

	cmd.AddCommand(list, create, show, del)
	return cmd
}

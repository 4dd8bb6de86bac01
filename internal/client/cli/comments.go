package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCommentsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment", "c"},
		Short:   "Read and write task comments",
	}

	list := &cobra.Command{
		Use:   "list <taskId>",
		Short: "List a task's comments, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			cs, err := a.board.Comments(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			a.view.comments(cs)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <taskId> [text...]",
		Short: "Comment on a task; without text, read it from input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if content == "" {
				if content, err = GetMultiline(a.in, "Comment", a.out); err != nil {
					return err
				}
			}
			c, err := a.board.AddComment(cmd.Context(), taskID, content)
			if err != nil {
				return err
			}
			a.view.ok("Added comment #%d", c.ID)
			return nil
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}

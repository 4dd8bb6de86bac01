package cli

import (
	"github.com/spf13/cobra"
)

func newAttachmentsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachments",
		Aliases: []string{"attachment", "files"},
		Short:   "List and upload task attachments",
	}

	list := &cobra.Command{
		Use:   "list <taskId>",
		Short: "List a task's attachments with download links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			as, err := a.board.Attachments(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			a.view.attachments(as)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <taskId> <file>",
		Short: "Upload a file to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			att, err := a.board.UploadAttachment(cmd.Context(), taskID, args[1])
			if err != nil {
				return err
			}
			a.view.ok("Uploaded %s as attachment #%d", att.FileName, att.ID)
			return nil
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}

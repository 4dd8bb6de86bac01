package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Command-line client for the taskboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), cmd.Flags())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.out)
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoAmICmd(a),
		newStatusCmd(a),
		newProjectsCmd(a),
		newTasksCmd(a),
		newCommentsCmd(a),
		newAttachmentsCmd(a),
		newShellCmd(a),
	)
	return root
}

func newShellCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printlnFn("Welcome to taskboard (type 'help' for commands, 'exit' to leave)")
			runREPL(cmd.Context(), func(ctx context.Context, args []string) error {
				return a.Execute(ctx, args)
			}, a.prompt, a.in)
			return nil
		},
	}
}

func parseID(s, what string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return n, nil
}

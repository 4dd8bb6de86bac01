package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/client/services"
	"github.com/spf13/cobra"
)

func (a *App) ask(value *string, prompt string) error {
	if *value != "" {
		return nil
	}
	v, err := GetSimpleText(a.in, prompt, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func newSignupCmd(a *App) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ask(&name, "Name"); err != nil {
				return err
			}
			if err := a.ask(&email, "Email"); err != nil {
				return err
			}
			pw, err := GetPassword(a.in, "Password", a.out)
			if err != nil {
				return err
			}
			defer wipe(pw)

			u, err := a.auth.Signup(cmd.Context(), name, email, pw)
			if err != nil {
				return err
			}
			a.view.ok("Signed up as %s <%s>", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ask(&email, "Email"); err != nil {
				return err
			}
			pw, err := GetPassword(a.in, "Password", a.out)
			if err != nil {
				return err
			}
			defer wipe(pw)

			u, err := a.auth.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			a.view.ok("Logged in as %s <%s>", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			was, err := a.auth.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if was {
				a.view.ok("Logged out")
			} else {
				a.view.note("Not logged in")
			}
			return nil
		},
	}
}

func newWhoAmICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the server sees for the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.auth.WhoAmI(cmd.Context())
			if err != nil {
				return err
			}
			a.view.user(u)
			return nil
		},
	}
}

func newStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server and the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if msg, err := a.client.Root(ctx); err != nil {
				a.view.println("api:     " + err.Error())
			} else {
				a.view.println("api:     " + msg)
			}

			pctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
			defer cancel()
			if err := a.auth.Ping(pctx); err != nil {
				a.view.println("health:  " + err.Error())
			} else {
				a.view.println("health:  serving")
			}

			u, err := a.auth.CachedUser(ctx)
			switch {
			case errors.Is(err, services.ErrNotLoggedIn):
				a.view.println("session: not logged in")
			case err != nil:
				return err
			default:
				a.view.println("session: " + u.Email)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register USERNAME",
		Short: "Create an account",
		Long: `Create an account with an empty expense list.

Usernames need at least 3 characters and are compared case-insensitively.
Passwords need at least 6 characters. Registering does not log you in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFlag(cmd, "password")
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				_, err := a.manager.Register(cmd.Context(), args[0], password)
				return report(cmd, fmt.Sprintf("User %s created successfully.", args[0]), err)
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	return cmd
}

func loginCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Log in, replacing any current session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordFlag(cmd, "password")
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				session, err := a.manager.Login(cmd.Context(), args[0], password)
				return report(cmd, fmt.Sprintf("Logged in as %s until %s.",
					session.Username, session.ExpiresAt.Local().Format("2006-01-02 15:04")), err)
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				return report(cmd, "Logged out.", a.manager.Logout(cmd.Context()))
			})
		},
	}
}

func whoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				session, ok := a.manager.CurrentSession(cmd.Context())
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (session %s, expires %s)\n",
					session.Username, session.Token, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
}

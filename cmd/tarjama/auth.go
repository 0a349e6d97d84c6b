package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/account"
	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/errs"
)

func newLoginCommand() *cobra.Command {
	var password string
	var rememberMe bool

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in to the translation service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var username string
			if len(args) > 0 {
				username = args[0]
			}
			username, err := p.ask("Username", username)
			if err != nil {
				return err
			}
			if password, err = p.askSecret("Password", password); err != nil {
				return err
			}

			return withApp(func(a *app.App) error {
				s, err := a.Accounts.Login(cmd.Context(), username, password, rememberMe)
				if err != nil {
					if errors.Is(err, errs.ErrAuthorization) {
						return fmt.Errorf("Login failed: %s", errs.Message(err))
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&rememberMe, "remember-me", false, "Stay signed in across runs")
	return cmd
}

func newSignupCommand() *cobra.Command {
	var form account.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if form.Username, err = p.ask("Username", form.Username); err != nil {
				return err
			}
			if form.Email, err = p.ask("Email", form.Email); err != nil {
				return err
			}
			if form.Phone, err = p.ask("Phone", form.Phone); err != nil {
				return err
			}
			if form.Password, err = p.askSecret("Password", form.Password); err != nil {
				return err
			}
			if form.ConfirmPassword, err = p.askSecret("Confirm password", form.ConfirmPassword); err != nil {
				return err
			}

			return withApp(func(a *app.App) error {
				msg, err := a.Accounts.Signup(cmd.Context(), form)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				fmt.Fprintf(cmd.OutOrStdout(), "Sign in with: tarjama login %s\n", form.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "Username (at least 3 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "Password again")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if err := a.Accounts.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if s, err := a.Accounts.Resume(); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s\n", s.Username)
					return nil
				}
				s, err := a.Accounts.Current()
				if err != nil {
					return err
				}
				if !s.LoggedIn() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.Username)
				return nil
			})
		},
	}
}

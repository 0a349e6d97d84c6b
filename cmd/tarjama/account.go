package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/cli"
	"codeberg.org/snonux/tarjama/internal/errs"
)

func newAccountCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the signed-in account",
	}
	cmd.AddCommand(
		newAccountShowCommand(),
		newAccountUpdateCommand(),
		newAccountPasswordCommand(),
		newAccountDeleteCommand(flags),
	)
	return cmd
}

func newAccountShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show email and phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				username, err := a.Username()
				if err != nil {
					return err
				}
				// Show whatever is known even when loading fails
				profile, err := a.Accounts.LoadProfile(cmd.Context(), username)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", errs.Message(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Username: %s\n", username)
				fmt.Fprintf(cmd.OutOrStdout(), "Email:    %s\n", profile.Email)
				fmt.Fprintf(cmd.OutOrStdout(), "Phone:    %s\n", profile.Phone)
				return nil
			})
		},
	}
}

func newAccountUpdateCommand() *cobra.Command {
	var email, phone string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change email and/or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				username, err := a.Username()
				if err != nil {
					return err
				}
				if err := a.Accounts.UpdateProfile(cmd.Context(), username, email, phone); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	return cmd
}

func newAccountPasswordCommand() *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if oldPassword, err = p.askSecret("Current password", oldPassword); err != nil {
				return err
			}
			if newPassword, err = p.askSecret("New password", newPassword); err != nil {
				return err
			}

			return withApp(func(a *app.App) error {
				username, err := a.Username()
				if err != nil {
					return err
				}
				if err := a.Accounts.ChangePassword(cmd.Context(), username, oldPassword, newPassword); err != nil {
					return passwordChangeError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "Current password (prompted when omitted)")
	cmd.Flags().StringVar(&newPassword, "new", "", "New password (prompted when omitted)")
	return cmd
}

func newAccountDeleteCommand(flags *cli.Flags) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account permanently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if password, err = p.askSecret("Password", password); err != nil {
				return err
			}

			return withApp(func(a *app.App) error {
				username, err := a.Username()
				if err != nil {
					return err
				}
				if !flags.Yes && !p.confirm(fmt.Sprintf("Delete account %s and all its history? This cannot be undone.", username)) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
					return nil
				}
				if err := a.Accounts.DeleteAccount(cmd.Context(), username, password); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

// passwordChangeError keeps the server's reason for a rejected change
func passwordChangeError(err error) error {
	if errors.Is(err, errs.ErrAuthorization) {
		return fmt.Errorf("password change failed: %s", errs.Message(err))
	}
	return err
}

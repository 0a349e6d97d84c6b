package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/cli"
	"codeberg.org/snonux/tarjama/internal/history"
)

func newHistoryCommand(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, "")
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Show past translations containing QUERY",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, strings.Join(args, " "))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all past translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				username, err := a.Username()
				if err != nil {
					return err
				}
				if !flags.Yes && !newPrompter(cmd).confirm("Delete your whole translation history? This cannot be undone.") {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
					return nil
				}
				if err := a.History.Clear(cmd.Context(), username); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(searchCmd, clearCmd)
	return cmd
}

func showHistory(cmd *cobra.Command, query string) error {
	return withApp(func(a *app.App) error {
		username, err := a.Username()
		if err != nil {
			return err
		}
		if _, err := a.History.Refresh(cmd.Context(), username); err != nil {
			return err
		}

		entries := a.History.Search(query)
		if len(entries) == 0 {
			if query == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No translations yet")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No translations match %q\n", query)
			}
			return nil
		}

		printEntries(cmd.OutOrStdout(), entries)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d translations\n", len(entries), a.History.Count())
		return nil
	})
}

func printEntries(w io.Writer, entries []history.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", e.Date(), e.Tag())
		fmt.Fprintf(w, "  %s\n", e.OriginalText)
		fmt.Fprintf(w, "  %s\n", e.TranslatedText)
	}
}

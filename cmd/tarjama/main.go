package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/cli"
	"codeberg.org/snonux/tarjama/internal/errs"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		if err := cli.LoadEnvFile(flags.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.AddCommand(
		newLoginCommand(),
		newSignupCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newTranslateCommand(),
		newInteractiveCommand(),
		newHistoryCommand(flags),
		newAccountCommand(flags),
		newVoicesCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errs.Message(err))
		stop()
		os.Exit(1)
	}
}

// withApp builds the application from the resolved configuration, runs fn
// and releases it again
func withApp(fn func(a *app.App) error) error {
	a, err := app.New(cli.AppConfig(), nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

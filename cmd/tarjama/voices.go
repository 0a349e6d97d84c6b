package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/audio"
	"codeberg.org/snonux/tarjama/internal/cli"
	"codeberg.org/snonux/tarjama/internal/models"
)

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the voices available for Arabic speech",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "espeak-ng voices (--espeak-voice):")
			for _, voice := range audio.ListVoices() {
				fmt.Fprintf(out, "  %s\n", voice)
			}

			fmt.Fprintln(out, "\nOpenAI speech models (--openai-model):")
			speech, err := models.NewLister(cli.GetOpenAIKey()).SpeechModels(cmd.Context())
			if errors.Is(err, models.ErrNoAPIKey) {
				fmt.Fprintln(out, "  No OpenAI key configured")
				return nil
			}
			if err != nil {
				return err
			}
			if len(speech) == 0 {
				fmt.Fprintln(out, "  No speech models found")
			}
			for _, model := range speech {
				fmt.Fprintf(out, "  %s\n", model)
			}
			return nil
		},
	}
}

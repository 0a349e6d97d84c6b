package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/tarjama/internal/app"
	"codeberg.org/snonux/tarjama/internal/audio"
	"codeberg.org/snonux/tarjama/internal/batch"
	"codeberg.org/snonux/tarjama/internal/errs"
	"codeberg.org/snonux/tarjama/internal/translation"
)

func newTranslateCommand() *cobra.Command {
	var to string
	var noPlay bool
	var batchFile string

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text and play the result",
		Example: `  tarjama translate -t French good morning
  tarjama translate -t Darija --no-play how are you
  tarjama translate --batch phrases.txt -t Arabic`,
		Args: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				entries, err := batch.ReadFile(batchFile, to)
				if err != nil {
					return err
				}
				return withApp(func(a *app.App) error {
					return runBatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), a, entries, !noPlay)
				})
			}

			if to == "" {
				return errs.Validation("translate", "choose a target language with --to")
			}
			text := strings.Join(args, " ")
			return withApp(func(a *app.App) error {
				ctx := cmd.Context()
				result, err := a.Translator.Translate(ctx, text, to)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.TranslatedText)

				if noPlay {
					return nil
				}
				return play(ctx, cmd.ErrOrStderr(), a, result.TranslatedText, to)
			})
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Target language, e.g. French, Arabic, Darija")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Do not play the result")
	cmd.Flags().StringVar(&batchFile, "batch", "", "Translate every line of a file (text or 'text = Language')")
	return cmd
}

// runBatch translates entries one after another. A failed entry is reported
// and the batch continues.
func runBatch(ctx context.Context, out, errOut io.Writer, a *app.App, entries []batch.Entry, autoPlay bool) error {
	failed := 0
	for i, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(errOut, "[%d/%d] %s → %s\n", i+1, len(entries), entry.Text, entry.TargetLanguage)

		result, err := a.Translator.Translate(ctx, entry.Text, entry.TargetLanguage)
		if err != nil {
			failed++
			fmt.Fprintf(errOut, "Line %d failed: %s\n", entry.Line, errs.Message(err))
			continue
		}
		fmt.Fprintf(out, "%s = %s\n", entry.Text, result.TranslatedText)

		if autoPlay {
			if err := play(ctx, errOut, a, result.TranslatedText, entry.TargetLanguage); err != nil {
				fmt.Fprintf(errOut, "Playback failed: %s\n", errs.Message(err))
			}
		}
	}

	fmt.Fprintf(errOut, "\nTranslated %d of %d lines\n", len(entries)-failed, len(entries))
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed", failed, len(entries))
	}
	return nil
}

// play voices a result and waits until it has finished. Missing audio is
// reported but not treated as a failure.
func play(ctx context.Context, w io.Writer, a *app.App, text, to string) error {
	err := a.Translator.RequestPlayback(ctx, text, to)
	switch {
	case errors.Is(err, audio.ErrNoAudio):
		fmt.Fprintf(w, "No audio available for %s\n", to)
		return nil
	case errors.Is(err, audio.ErrNotReady):
		fmt.Fprintln(w, "Arabic TTS is not ready. Install espeak-ng or configure an OpenAI key.")
		return nil
	case err != nil:
		return err
	}
	return a.Player.Wait(ctx)
}

func newInteractiveCommand() *cobra.Command {
	var to string
	var noPlay bool

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Translate each line typed on standard input",
		Long: `interactive reads text line by line and translates every line into the
target language. A line entered while the previous one is still being
translated replaces it.

Commands:
  :to LANGUAGE   change the target language
  :play          play the last result again
  :quit          leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				s := &interactiveSession{
					app:    a,
					out:    cmd.OutOrStdout(),
					errOut: cmd.ErrOrStderr(),
					to:     to,
					play:   !noPlay,
				}
				return s.run(cmd.Context(), cmd.InOrStdin())
			})
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Target language, e.g. French, Arabic, Darija")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Do not play results automatically")
	cmd.MarkFlagRequired("to")
	return cmd
}

// interactiveSession prints results as they arrive; superseded lines are
// dropped silently
type interactiveSession struct {
	app    *app.App
	out    io.Writer
	errOut io.Writer
	to     string
	play   bool

	mu       sync.Mutex
	last     string
	lastTo   string
	inflight sync.WaitGroup
}

func (s *interactiveSession) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ":quit":
			s.inflight.Wait()
			return nil
		case line == ":play":
			s.replay(ctx)
			continue
		case strings.HasPrefix(line, ":to "):
			s.to = strings.TrimSpace(strings.TrimPrefix(line, ":to "))
			fmt.Fprintf(s.errOut, "Translating to %s\n", s.to)
			continue
		}

		req, err := s.app.Translator.Submit(ctx, line, s.to)
		if err != nil {
			fmt.Fprintf(s.errOut, "%s\n", errs.Message(err))
			continue
		}
		s.inflight.Add(1)
		go s.deliver(ctx, req)
	}

	s.inflight.Wait()
	return scanner.Err()
}

func (s *interactiveSession) deliver(ctx context.Context, req *translation.Request) {
	defer s.inflight.Done()

	result, err := req.Wait(ctx)
	if translation.IsSuperseded(err) {
		return
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "Translation failed: %s\n", errs.Message(err))
		return
	}

	s.mu.Lock()
	s.last, s.lastTo = result.TranslatedText, req.TargetLanguage
	s.mu.Unlock()

	fmt.Fprintln(s.out, result.TranslatedText)
	if s.play {
		if err := play(ctx, s.errOut, s.app, result.TranslatedText, req.TargetLanguage); err != nil {
			fmt.Fprintf(s.errOut, "Playback failed: %s\n", errs.Message(err))
		}
	}
}

func (s *interactiveSession) replay(ctx context.Context) {
	s.mu.Lock()
	text, to := s.last, s.lastTo
	s.mu.Unlock()

	if text == "" {
		fmt.Fprintln(s.errOut, "Nothing translated yet")
		return
	}
	if err := play(ctx, s.errOut, s.app, text, to); err != nil {
		fmt.Fprintf(s.errOut, "Playback failed: %s\n", errs.Message(err))
	}
}

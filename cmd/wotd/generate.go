package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ersonp/wotd/internal/application/handlers"
	"github.com/ersonp/wotd/internal/domain/entities"
)

func newGenerateCmd() *cobra.Command {
	var (
		retries    int
		retryDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate today's word if it does not exist yet",
		Long: "Runs one generation for today's date. If another process already stored today's " +
			"word, that word is shown instead. Failed generations can be retried with --retries.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, retries, retryDelay)
		},
	}

	cmd.Flags().IntVarP(&retries, "retries", "r", DefaultRetries, "Extra attempts after a failed generation")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", DefaultRetryDelay, "Delay between attempts")

	return cmd
}

func runGenerate(cmd *cobra.Command, retries int, retryDelay time.Duration) error {
	if retries < 0 {
		return fmt.Errorf("--retries must be >= 0, got %d", retries)
	}

	return withDeps(cmd.Context(), requireGenerator, func(d *Deps) error {
		result, err := generateWithRetry(cmd.Context(), d.WordHandler.HandleGenerate, retries, retryDelay, d.Logger)
		if err != nil {
			return fmt.Errorf("generating word of the day: %w", err)
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, result)
		}
		printGenerated(out, result)
		return nil
	})
}

// generateWithRetry runs generate up to retries+1 times. Only generation
// failures are retried; store and context errors end the run at once.
func generateWithRetry(
	ctx context.Context,
	generate func(context.Context) (*handlers.WordResult, error),
	retries int,
	delay time.Duration,
	logger *slog.Logger,
) (*handlers.WordResult, error) {
	var result *handlers.WordResult
	err := retry.Do(
		func() error {
			var err error
			result, err = generate(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(retries)+1),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, entities.ErrGeneration)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("generation attempt failed", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// printGenerated reports the outcome of a generate run.
func printGenerated(w io.Writer, result *handlers.WordResult) {
	if result.Created {
		color.New(color.FgGreen).Fprintf(w, "Generated new Word of the Day, %s\n", result.Entry.Word)
	} else {
		color.New(color.FgYellow).Fprintf(w, "Word of the Day for %s already generated, %s\n", result.Entry.Date, result.Entry.Word)
	}
	fmt.Fprintln(w)
	printEntry(w, result.Entry)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/wotd/internal/domain/entities"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <YYYY-MM-DD>",
		Short: "Show the word for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, date string) error {
	return withDeps(cmd.Context(), noGenerator, func(d *Deps) error {
		result, err := d.WordHandler.HandleByDate(cmd.Context(), date)
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("%s: %w", date, errNoEntry)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, result.Entry)
		}
		printEntry(out, result.Entry)
		return nil
	})
}

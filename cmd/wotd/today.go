package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/wotd/internal/domain/entities"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's word",
		Long:  "Prints today's entry. It never generates; use 'wotd generate' for that.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	return withDeps(cmd.Context(), noGenerator, func(d *Deps) error {
		out := cmd.OutOrStdout()

		result, err := d.WordHandler.HandleToday(cmd.Context())
		if errors.Is(err, entities.ErrNotFound) {
			fmt.Fprintf(out, "No word generated yet for %s.\n", d.Resolver.TodayKey())
			return nil
		}
		if err != nil {
			return err
		}

		if globalJSON {
			return printJSON(out, result.Entry)
		}
		printEntry(out, result.Entry)
		return nil
	})
}

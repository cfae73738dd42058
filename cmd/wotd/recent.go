package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecentCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent words",
		Long:  "Lists entries from the last N days up to and including today, oldest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(cmd, days)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", DefaultRecentDays, "Number of days to look back")

	return cmd
}

func runRecent(cmd *cobra.Command, days int) error {
	return withDeps(cmd.Context(), noGenerator, func(d *Deps) error {
		result, err := d.WordHandler.HandleRecent(cmd.Context(), days)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if globalJSON {
			return printJSON(out, result)
		}

		if len(result.Entries) == 0 {
			fmt.Fprintf(out, "No words in the last %d days.\n", days)
			return nil
		}
		for i := range result.Entries {
			printEntryLine(out, &result.Entries[i])
		}
		return nil
	})
}

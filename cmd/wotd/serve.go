package main

import (
	"github.com/spf13/cobra"

	"github.com/ersonp/wotd/internal/infrastructure/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the word of the day over HTTP",
		Long: "Starts the HTTP API. Without an OpenAI API key the server runs read-only " +
			"and POST /api/generate answers 503.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	return withDeps(cmd.Context(), optionalGenerator, func(d *Deps) error {
		if addr == "" {
			addr = d.Config.Server.Addr
		}
		server := httpapi.NewServer(d.WordHandler, d.Resolver, d.Logger)
		return server.ListenAndServe(cmd.Context(), addr)
	})
}

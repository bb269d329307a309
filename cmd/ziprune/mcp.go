package main

import (
	"github.com/spf13/cobra"

	"github.com/ziprune/ziprune/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for ziprune on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			server := mcp.NewServer(a.dbCtx, mcp.Options{
				MinConfidence: a.cfg.MinConfidence,
				Analyzer:      analyzerOptions(a.cfg, a.logger),
				Logger:        a.logger,
			})

			ctx, stop := interruptContext(cmd.Context())
			defer stop()
			return server.Run(ctx)
		},
	}

	return cmd
}

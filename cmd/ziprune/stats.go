package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what the index store holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.analyzer.Stats(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetTitle(a.dbCtx.Path)
			t.AppendHeader(table.Row{"Archives", "Count"})
			for _, c := range stats.ByStatus {
				t.AppendRow(table.Row{string(c.Status), c.Count})
			}
			t.AppendFooter(table.Row{"Total archives", stats.Archives})
			t.AppendFooter(table.Row{"Indexed files", stats.Files})
			t.Render()
			return nil
		},
	}
}

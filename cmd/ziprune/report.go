package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ziprune/ziprune/internal/usecase"
)

func newReportCmd() *cobra.Command {
	var (
		minConfidence float64
		format        string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List archives whose contents were already extracted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			threshold := a.cfg.MinConfidence
			if cmd.Flags().Changed("min-confidence") {
				threshold = minConfidence
			}

			redundant, err := a.analyzer.GetRedundant(cmd.Context(), threshold)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputJSON(cmd.OutOrStdout(), redundant)
			case "table":
				outputTable(cmd.OutOrStdout(), redundant)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.9, "Lowest confidence to report, between 0 and 1")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type reportOutputEntry struct {
	Archive    string  `json:"archive"`
	Directory  string  `json:"directory"`
	Confidence float64 `json:"confidence"`
	Size       *int64  `json:"size,omitempty"`
}

func outputJSON(w io.Writer, redundant []usecase.Redundant) error {
	output := make([]reportOutputEntry, 0, len(redundant))
	for _, r := range redundant {
		item := reportOutputEntry{
			Archive:    r.ArchivePath,
			Directory:  r.Directory,
			Confidence: r.Confidence,
		}
		if size, ok := archiveSize(r.ArchivePath); ok {
			item.Size = &size
		}
		output = append(output, item)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputTable(w io.Writer, redundant []usecase.Redundant) {
	if len(redundant) == 0 {
		fmt.Fprintln(w, "No redundant archives found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Archive", "Extracted To", "Confidence", "Size"})

	// Confidence and size take roughly 24 columns plus borders; split the rest.
	pathWidth := (getTerminalWidth() - 36) / 2
	if pathWidth < 20 {
		pathWidth = 20
	}

	var total uint64
	for _, r := range redundant {
		size := "-"
		if n, ok := archiveSize(r.ArchivePath); ok {
			size = humanize.Bytes(uint64(n))
			total += uint64(n)
		}
		t.AppendRow(table.Row{
			truncateLeft(r.ArchivePath, pathWidth),
			truncateLeft(r.Directory, pathWidth),
			fmt.Sprintf("%.2f", r.Confidence),
			size,
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d match(es)", len(redundant)), "", "", humanize.Bytes(total)})

	t.Render()
}

func archiveSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// truncateLeft keeps the end of a path, which is the part that tells archives apart.
func truncateLeft(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	width := runewidth.StringWidth("...")
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if width+w > maxWidth {
			break
		}
		width += w
		start--
	}
	return "..." + string(runes[start:])
}

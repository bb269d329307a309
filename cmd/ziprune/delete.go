package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var (
		minConfidence float64
		yes           bool
	)

	cmd := &cobra.Command{
		Use:   "delete [archive...]",
		Short: "Delete redundant archives",
		Long:  "Delete the given archives, or every archive the report lists when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				paths = append(paths, abs)
			}

			if len(paths) == 0 {
				threshold := a.cfg.MinConfidence
				if cmd.Flags().Changed("min-confidence") {
					threshold = minConfidence
				}
				redundant, err := a.analyzer.GetRedundant(cmd.Context(), threshold)
				if err != nil {
					return err
				}
				seen := make(map[string]bool, len(redundant))
				for _, r := range redundant {
					if !seen[r.ArchivePath] {
						seen[r.ArchivePath] = true
						paths = append(paths, r.ArchivePath)
					}
				}
			}

			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "Nothing to delete")
				return nil
			}

			var total uint64
			for _, path := range paths {
				if size, ok := archiveSize(path); ok {
					total += uint64(size)
				}
				fmt.Fprintf(out, "  %s\n", path)
			}

			if !yes {
				confirmPrompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete %d archive(s), %s", len(paths), humanize.Bytes(total)),
					IsConfirm: true,
				}
				if _, err := confirmPrompt.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						fmt.Fprintln(out, "Deletion cancelled")
						return nil
					}
					return fmt.Errorf("confirmation failed: %w", err)
				}
			}

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			result, err := a.analyzer.Delete(ctx, paths)
			if err != nil {
				return err
			}

			okColor.Fprintf(out, "Deleted %d files, freed %s\n", result.Deleted, humanize.Bytes(uint64(result.BytesFreed)))
			printFailures(out, result.Failures)
			printCancelled(out, result.Cancelled)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.9, "Lowest confidence to delete when no archives are given")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

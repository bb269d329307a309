package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/usecase"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func newScanCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Index a tree, read its archives and match extracted folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			tk := a.analyzer.StartScan(ctx, args[0])
			a.logger.Info("scan started", zap.String("task", tk.ID), zap.String("root", args[0]))

			view := newProgressView(cmd.ErrOrStderr())
			for p := range tk.Progress() {
				if !quiet {
					view.update(p)
				}
			}
			view.finish()

			result, err := tk.Wait()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Index != nil {
				printIndexSummary(out, result.Index)
			}
			if result.Analyze != nil {
				printAnalyzeSummary(out, result.Analyze)
			}
			if result.Extraction != nil {
				printExtractionSummary(out, result.Extraction)
			}
			printCancelled(out, result.Cancelled)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw progress bars")

	return cmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <root>",
		Short: "Record every regular file under root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			view := newProgressView(cmd.ErrOrStderr())
			result, err := a.analyzer.Index(ctx, args[0], view.update)
			view.finish()
			if err != nil {
				return err
			}

			printIndexSummary(cmd.OutOrStdout(), result)
			printCancelled(cmd.OutOrStdout(), result.Cancelled)
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "List the contents of every indexed archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			view := newProgressView(cmd.ErrOrStderr())
			result, err := a.analyzer.AnalyzeArchives(ctx, view.update)
			view.finish()
			if err != nil {
				return err
			}

			printAnalyzeSummary(cmd.OutOrStdout(), result)
			printCancelled(cmd.OutOrStdout(), result.Cancelled)
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Score sibling folders of every analyzed archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			view := newProgressView(cmd.ErrOrStderr())
			result, err := a.analyzer.FindPotentialExtractions(ctx, view.update)
			view.finish()
			if err != nil {
				return err
			}

			printExtractionSummary(cmd.OutOrStdout(), result)
			printCancelled(cmd.OutOrStdout(), result.Cancelled)
			return nil
		},
	}
}

func printIndexSummary(w io.Writer, r *usecase.IndexResult) {
	okColor.Fprintf(w, "Indexed %d files\n", r.Indexed)
	printFailures(w, r.Failures)
}

func printAnalyzeSummary(w io.Writer, r *usecase.AnalyzeResult) {
	okColor.Fprintf(w, "Analyzed %d of %d archives (%d entries)\n", r.Analyzed, r.Archives, r.Entries)
	printFailures(w, r.Failures)
}

func printExtractionSummary(w io.Writer, r *usecase.ExtractionResult) {
	okColor.Fprintf(w, "Scored %d candidate folders, recorded %d matches\n", r.Candidates, r.Matches)
	printFailures(w, r.Failures)
}

func printFailures(w io.Writer, failures []usecase.Failure) {
	if len(failures) == 0 {
		return
	}
	warnColor.Fprintf(w, "Skipped %d item(s):\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "  %s\n", f.Error())
	}
}

func printCancelled(w io.Writer, cancelled bool) {
	if cancelled {
		warnColor.Fprintln(w, "Interrupted: results are partial")
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziprune/ziprune/internal/database"
)

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every row from the index store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !yes {
				confirmPrompt := promptui.Prompt{
					Label:     fmt.Sprintf("Clear %s", a.dbCtx.Path),
					IsConfirm: true,
				}
				if _, err := confirmPrompt.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
						return nil
					}
					return fmt.Errorf("confirmation failed: %w", err)
				}
			}

			if err := database.ClearDatabase(a.dbCtx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Index store cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

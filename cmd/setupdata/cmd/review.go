package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"setupdata/internal/core"
	"setupdata/internal/tui"
)

// reviewCmd shows the resolved layout in an interactive table and applies it on confirmation.
var reviewCmd = &cobra.Command{
	Use:   "review [struct_file]",
	Short: "Review the resolved offsets interactively before writing them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		logger := newLogger(cmd.ErrOrStderr())

		res, err := core.Analyze(cfg.StructFile, cfg.Sentinel, logger)
		if err != nil {
			return err
		}
		warnLocalChanges(logger, cfg.StructFile)

		confirmed, err := tui.Review(cfg.StructFile, res)
		if err != nil {
			return fmt.Errorf("failed to run review: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing written.")
			return nil
		}

		rep, err := apply(cfg, false, logger)
		if err != nil {
			return err
		}
		printChanges(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"setupdata/internal/core"
	"setupdata/internal/report"
)

var reportHTML bool

// reportCmd prints the offset table of a struct file without rewriting it.
var reportCmd = &cobra.Command{
	Use:   "report [struct_file]",
	Short: "Print the resolved offset table without modifying the file",
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

		out := cmd.OutOrStdout()
		if reportHTML {
			page, err := report.HTML(cfg.StructFile, res.Fields, res.NextOffset)
			if err != nil {
				return err
			}
			_, err = out.Write(page)
			return err
		}
		fmt.Fprint(out, report.Markdown(cfg.StructFile, res.Fields, res.NextOffset))
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "render the report as an HTML page")
	rootCmd.AddCommand(reportCmd)
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"setupdata/internal/config"
	"setupdata/internal/core"
	"setupdata/internal/downstream"
	"setupdata/internal/gitutil"
	"setupdata/internal/report"
	"setupdata/internal/rewrite"
	"setupdata/pkg/setupvar"
)

// flags shared by the root command and its subcommands
var (
	configFile   string
	sentinelFlag string
	manifestFlag string
	reportFlag   string
	assumeYes    bool
	dryRun       bool
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "setupdata [struct_file]",
	Short: "Recompute the offset comments of a firmware setup data struct",
	Long: `setupdata walks the field declarations of a setup data struct, assigns every field
its byte offset starting at 0x0001, and rewrites the trailing offset comments. The previous
version of the file is kept as <file>.bak and the one before that as <file>.bak2.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		logger := newLogger(cmd.ErrOrStderr())

		if err := core.CheckFile(cfg.StructFile); err != nil {
			return err
		}
		warnLocalChanges(logger, cfg.StructFile)

		if !cfg.AssumeYes && !dryRun {
			if err := acknowledge(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.StructFile); err != nil {
				return err
			}
		}

		rep, err := apply(cfg, dryRun, logger)
		if err != nil {
			return err
		}
		printChanges(cmd.OutOrStdout(), rep)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default "+config.DefaultFile+" if present)")
	pf.StringVar(&sentinelFlag, "sentinel", "", "line marking the end of the field declarations")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	f := rootCmd.Flags()
	f.BoolVarP(&assumeYes, "yes", "y", false, "skip the acknowledgment prompt")
	f.BoolVar(&dryRun, "dry-run", false, "print the changes without writing the file")
	f.StringVar(&manifestFlag, "manifest", "", "write the resolved layout as JSON to this path")
	f.StringVar(&reportFlag, "report", "", "write an offset report (.md or .html) to this path")
}

// loadConfig resolves settings from the config file, then overrides them with flags and
// the positional struct file.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return cfg, err
	}

	if len(args) > 0 {
		cfg.StructFile = args[0]
	}
	if cmd.Flags().Changed("sentinel") {
		cfg.Sentinel = sentinelFlag
	}
	if cmd.Flags().Changed("manifest") {
		cfg.ManifestPath = manifestFlag
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportPath = reportFlag
	}
	if assumeYes {
		cfg.AssumeYes = true
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// warnLocalChanges logs when the struct file has edits git does not know about yet, since the
// backups only keep two generations.
func warnLocalChanges(logger *slog.Logger, path string) {
	dirty, err := gitutil.HasLocalChanges(path)
	if err != nil {
		logger.Debug("git status unavailable", slog.String("error", err.Error()))
		return
	}
	if dirty {
		logger.Warn("struct file has uncommitted changes", slog.String("file", path))
	}
}

// acknowledge waits for the operator to press Enter before the file is touched.
func acknowledge(in io.Reader, out io.Writer, path string) error {
	fmt.Fprintf(out, "%s will be rewritten and backed up. Press Enter to continue...", path)
	reader := bufio.NewReader(in)
	if _, err := reader.ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read acknowledgment: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}

// apply runs the rewrite pass with the configured outputs and downstream consumers.
func apply(cfg config.Config, dry bool, logger *slog.Logger) (*core.Report, error) {
	opts := core.Options{
		Path:     cfg.StructFile,
		Sentinel: cfg.Sentinel,
		DryRun:   dry,
		Logger:   logger,
		Consumers: []downstream.Consumer{
			downstream.FactoryDefaults{Path: cfg.FactoryDefaultsFile},
			downstream.SDLTokenUpdater{Path: cfg.SDLFile},
		},
	}
	if cfg.ManifestPath != "" {
		opts.Manifest = core.NewFileManifestStore(cfg.ManifestPath)
	}

	rep, err := core.Run(opts)
	if err != nil {
		return nil, err
	}
	if cfg.ReportPath != "" {
		res := rep.Result
		if err := report.WriteFile(cfg.ReportPath, cfg.StructFile, res.Fields, res.NextOffset); err != nil {
			return rep, err
		}
		logger.Info("offset report written", slog.String("report", cfg.ReportPath))
	}
	return rep, nil
}

// printChanges lists the rewritten declaration lines.
func printChanges(w io.Writer, rep *core.Report) {
	res := rep.Result
	verb := "updated"
	if !rep.Written {
		verb = "would update"
	}
	if !res.Changed() {
		fmt.Fprintf(w, "%s: %d fields, all offsets current, next free offset %s\n",
			rep.Path, len(res.Fields), setupvar.FormatOffset(res.NextOffset))
		return
	}
	fmt.Fprintf(w, "%s: %s %d of %d fields, next free offset %s\n",
		rep.Path, verb, len(res.Changes), len(res.Fields), setupvar.FormatOffset(res.NextOffset))
	for _, c := range res.Changes {
		printChange(w, c)
	}
}

func printChange(w io.Writer, c rewrite.Change) {
	fmt.Fprintf(w, "  line %d: %s\n    - %s\n    + %s\n", c.Line, c.Field, c.Before, c.After)
}

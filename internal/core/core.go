package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"setupdata/internal/backup"
	"setupdata/internal/clock"
	"setupdata/internal/downstream"
	"setupdata/internal/manifest"
	"setupdata/internal/rewrite"
)

// ErrMissingFile is returned when the struct file does not exist. Nothing is modified.
var ErrMissingFile = errors.New("file not found")

// Options configures one run over a struct file.
type Options struct {
	Path      string
	Sentinel  string
	DryRun    bool                  // Resolve and report, but leave the file alone
	Manifest  ManifestStore         // Optional; receives the resolved layout
	Consumers []downstream.Consumer // Optional; receive the resolved fields after the write
	Clock     clock.Clock
	Logger    *slog.Logger
}

// Report describes what a run did.
type Report struct {
	Path       string
	Result     *rewrite.Result
	Written    bool
	Manifest   *manifest.Manifest
	Downstream []downstream.Result
}

// CheckFile returns ErrMissingFile if path does not exist.
func CheckFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("failed to stat struct file: %w", err)
	}
	return nil
}

// Analyze runs the rewrite pass over path without modifying anything.
func Analyze(path, sentinel string, logger *slog.Logger) (*rewrite.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to open struct file: %w", err)
	}
	defer f.Close()

	res, err := rewrite.Transform(f, rewrite.Options{Sentinel: sentinel, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", path, err)
	}
	return res, nil
}

// Run re-derives every offset in the struct file and, unless DryRun is set, commits the
// rewritten text behind a rotated backup. Parse errors abort before anything is written.
func Run(opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	logger = logger.With(slog.String("file", opts.Path))

	res, err := Analyze(opts.Path, opts.Sentinel, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("resolved setup variables",
		slog.Int("fields", len(res.Fields)),
		slog.Int("changes", len(res.Changes)),
		slog.String("next_offset", fmt.Sprintf("0x%04X", res.NextOffset)))

	report := &Report{Path: opts.Path, Result: res}

	if opts.DryRun {
		logger.Info("dry run, file left unchanged")
	} else {
		if err := backup.Commit(opts.Path, res.Content); err != nil {
			return report, fmt.Errorf("failed to commit %s: %w", opts.Path, err)
		}
		report.Written = true
		bak, bak2 := backup.Paths(opts.Path)
		logger.Info("struct file rewritten", slog.String("backup", bak), slog.String("previous_backup", bak2))
	}

	if opts.Manifest != nil {
		m := manifest.New(opts.Path, res.Fields, res.NextOffset, clk.Now())
		if err := opts.Manifest.Save(m); err != nil {
			return report, fmt.Errorf("failed to save layout manifest: %w", err)
		}
		report.Manifest = m
		logger.Debug("layout manifest saved", slog.String("fingerprint", m.Fingerprint))
	}

	report.Downstream = downstream.ApplyAll(opts.Consumers, res.Fields)
	for _, r := range report.Downstream {
		logger.Info("downstream consumer",
			slog.String("consumer", r.Consumer),
			slog.String("status", r.Status.String()),
			slog.String("detail", r.Message))
	}

	return report, nil
}

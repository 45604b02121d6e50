package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nao1215/imgmeta/internal/config"
	"github.com/nao1215/imgmeta/internal/database"
	"github.com/nao1215/imgmeta/internal/filter"
	"github.com/nao1215/imgmeta/internal/log"
	"github.com/nao1215/imgmeta/internal/model"
	"github.com/nao1215/imgmeta/internal/pipeline"
	"github.com/nao1215/imgmeta/internal/report"
)

// fileFlags are the inspect flags that a configuration file may also set.
// Flags given on the command line win over the file.
var fileFlags = []string{"hide-gps", "no-fallback", "max-size", "batch", "filter", "history", "no-history", "json", "markdown"}

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print image properties and EXIF metadata",
		Long: `Inspect reads one or more image files and prints their metadata grouped by
category:
- Image Properties (format, size, color mode, file size, DPI, duration)
- Camera Information (make, model, software, lens, serial number)
- Date and Time (taken, digitized, modified, time zone offset)
- Camera Settings (exposure, aperture, ISO, focal length, flash, ...)
- GPS Information (coordinates, altitude, map link, time zone)
- Other Details (orientation, resolution, unique ID, EXIF version, ...)

Images without EXIF only show their properties. Every report ends with a
privacy summary of metadata that discloses a location, device or person.

Nothing is written to disk unless --history (or "history: true" in the
configuration file) is given; stored reports include GPS coordinates.

Examples:
  # Inspect a single photo
  imgmeta inspect photo.jpg

  # Inspect a directory of photos, 8 at a time
  imgmeta inspect --batch 8 photos/*.jpg

  # Only show photos that carry GPS coordinates
  imgmeta inspect --filter 'HasGPS' photos/*

  # Write a Markdown report without printing the location
  imgmeta inspect --markdown --hide-gps -o report.md photo.jpg

  # Output JSON and record the run for 'imgmeta history'
  imgmeta inspect --json --history photo.heic`,
		Args: cobra.ArbitraryArgs,
		RunE: runInspectCmd,
	}

	// Extraction flags
	cmd.Flags().Bool("hide-gps", false,
		"Redact the GPS section and mask coordinates in findings")
	cmd.Flags().Bool("no-fallback", false,
		"Do not retry damaged EXIF blocks with the lenient decoder")
	cmd.Flags().String("max-size", humanize.IBytes(uint64(config.DefaultMaxFileSize)),
		"Largest file to read, e.g. 50MB or 1GiB (0 disables the limit)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files inspected concurrently")
	cmd.Flags().String("filter", "",
		"Only print reports matching this expression (e.g. \"HasGPS && Make == 'Canon'\")")

	// Configuration and history
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .imgmeta in current or home directory)")
	cmd.Flags().Bool("history", false,
		"Record this run in the history database")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run, even if the configuration file enables history")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the text report to stdout")
	cmd.Flags().BoolP("tags", "t", false,
		"Append every decoded tag to the text report")

	cmd.MarkFlagsMutuallyExclusive("history", "no-history")

	return cmd
}

// outputOptions holds presentation settings that do not affect extraction.
type outputOptions struct {
	// showTags appends the raw tag list to text reports.
	showTags bool

	// tee prints the text report to stdout when writing to a file.
	tee bool
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var opts outputOptions
	if opts.showTags, err = cmd.Flags().GetBool("tags"); err != nil {
		return err
	}
	if opts.tee, err = cmd.Flags().GetBool("tee"); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runInspect(ctx, cfg, opts, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	var err error
	flags := cmd.Flags()

	if cfg.HideGPS, err = flags.GetBool("hide-gps"); err != nil {
		return nil, err
	}
	noFallback, err := flags.GetBool("no-fallback")
	if err != nil {
		return nil, err
	}
	cfg.Fallback = !noFallback

	maxSize, err := flags.GetString("max-size")
	if err != nil {
		return nil, err
	}
	if cfg.MaxFileSize, err = parseSize(maxSize); err != nil {
		return nil, err
	}

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Filter, err = flags.GetString("filter"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	if cfg.SaveToDB, err = flags.GetBool("history"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	// If the user named a config file it must exist; otherwise a missing
	// file just means defaults.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		explicit := make(map[string]bool, len(fileFlags))
		for _, name := range fileFlags {
			explicit[name] = flags.Changed(name)
		}
		cfg.ApplyFile(f, explicit)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// parseSize parses a human readable byte count such as "200 MiB".
func parseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-size %q: %w", s, err)
	}
	return int64(n), nil //nolint:gosec // values above MaxInt64 turn negative and fail Validate
}

// newPipelineFactory returns a factory building one pipeline per file with
// the settings that apply to that file.
func newPipelineFactory(cfg *config.Config, logger *slog.Logger) func(path string) *pipeline.Pipeline {
	return func(path string) *pipeline.Pipeline {
		s := cfg.SettingsFor(path)
		return pipeline.DefaultPipeline(
			[]pipeline.Option{pipeline.WithLogger(logger)},
			pipeline.WithPipelineMaxFileSize(s.SizeLimit()),
			pipeline.WithPipelineFallback(s.FallbackEnabled()),
			pipeline.WithPipelineHideGPS(s.Hidden()),
		)
	}
}

// runInspect inspects every target, records the results and writes the
// report. A single failed file returns its own error; in a batch the
// failures are reported inline and summarised in the returned error.
func runInspect(ctx context.Context, cfg *config.Config, opts outputOptions, stdout io.Writer, logger *slog.Logger) error {
	var flt *filter.Filter
	if cfg.Filter != "" {
		var err error
		if flt, err = filter.Compile(cfg.Filter); err != nil {
			return err
		}
		logger.Debug("filter compiled", "expression", flt.String())
	}

	logger.Debug("starting inspection",
		"files", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	}
	runID := database.NewRunID()
	if db != nil {
		logger.Debug("recording run", "run", runID)
	}

	bp := pipeline.NewBatchProcessor(
		newPipelineFactory(cfg, logger),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	reports := make([]*model.ImageReport, len(cfg.Targets))

	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(r *model.ImageReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		reports[index] = r
		logger.Debug("file inspected", "index", index+1, "total", len(cfg.Targets), "file", r.Path)
		if err := saveReport(ctx, db, runID, r, logger); err != nil {
			logger.Warn("failed to record report", "file", r.Path, "error", err)
		}
	})
	if err != nil {
		return err
	}
	logger.Debug("inspection completed", "elapsed", time.Since(startTime).Round(time.Millisecond))

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}

	if len(reports) == 1 && failed == 1 {
		return reportError(reports[0])
	}

	selected := filterReports(flt, reports, logger)
	if err := outputReport(cfg, opts, stdout, selected); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(reports))
	}
	return nil
}

// reportError returns the error that stopped inspection of r.
func reportError(r *model.ImageReport) error {
	if r.Error != nil {
		return r.Error
	}
	return errors.New(r.ErrorMessage)
}

// openHistory opens the history database when recording is enabled.
// A database that cannot be opened disables recording for this run
// instead of failing the inspection.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.HistoryDB {
	if !cfg.SaveToDB {
		return nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("history disabled", "dir", cfg.DBDir, "error", err)
		return nil
	}
	logger.Debug("history database opened", "path", db.Path())
	return db
}

// saveReport records a successful report in the history database.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.HistoryDB, runID string, r *model.ImageReport, logger *slog.Logger) error {
	if db == nil || r.Failed() {
		return nil
	}
	id, err := db.SaveReport(ctx, runID, r)
	if err != nil {
		return err
	}
	logger.Debug("report recorded", "file", r.Path, "id", id)
	return nil
}

// filterReports keeps the reports matching flt. Failed reports are always
// kept so their errors are shown. A report the expression cannot be
// evaluated against, typically because it lacks a referenced tag, does
// not match.
func filterReports(flt *filter.Filter, reports []*model.ImageReport, logger *slog.Logger) []*model.ImageReport {
	if flt == nil {
		return reports
	}
	selected := make([]*model.ImageReport, 0, len(reports))
	for _, r := range reports {
		if r.Failed() {
			selected = append(selected, r)
			continue
		}
		ok, err := flt.Match(r)
		if err != nil {
			logger.Debug("filter not applicable", "file", r.Path, "error", err)
			continue
		}
		if ok {
			selected = append(selected, r)
		}
	}
	return selected
}

// newWriter returns the report writer for the configured format.
func newWriter(cfg *config.Config, opts outputOptions, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithVerbose(cfg.Verbose),
			report.WithRawTags(opts.showTags),
		)
	}
}

// outputReport writes reports in the requested format to the report file
// or stdout. A single target is written as one report, several as a batch.
// With tee set and a report file, the text report also goes to stdout.
func outputReport(cfg *config.Config, opts outputOptions, stdout io.Writer, reports []*model.ImageReport) error {
	var writer report.Writer
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain locations and serial numbers, so the file is
		// only readable by the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		writer = newWriter(cfg, opts, f)
		if opts.tee {
			writer = report.NewMultiWriter(writer, report.NewSimpleWriter(stdout,
				report.WithVerbose(cfg.Verbose),
				report.WithRawTags(opts.showTags),
			))
		}
	} else {
		writer = newWriter(cfg, opts, stdout)
	}

	var err error
	switch {
	case len(cfg.Targets) == 1 && len(reports) == 1:
		_, err = writer.Write(reports[0])
	case len(cfg.Targets) == 1:
		// The only file was filtered out.
		return nil
	default:
		_, err = writer.WriteBatch(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

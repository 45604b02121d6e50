package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/imgmeta/internal/model"
)

// BatchProcessor inspects many files concurrently, one fresh pipeline per
// file.
//
// Design decision: Batching lives outside Pipeline so that a single-file
// run has no goroutines at all, and so that the batch concurrency limit is
// set independently of the steps.
type BatchProcessor struct {
	pipelineFactory func(path string) *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of files inspected at once.
// Non-positive values keep the default of 4.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per file with that file's path, so
// callers can vary step settings per file.
func NewBatchProcessor(pipelineFactory func(path string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch inspects every path and returns the reports in input order.
// Per-file failures are recorded on the reports; the error is only set
// when the context is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.ImageReport, error) {
	reports := make([]*model.ImageReport, len(paths))
	err := bp.ProcessBatchWithCallback(ctx, paths, func(report *model.ImageReport, index int) {
		// Each index is written by exactly one goroutine.
		reports[index] = report
	})
	return reports, err
}

// ProcessBatchWithCallback inspects every path and calls callback as each
// report completes. The callback runs on the worker goroutine and must be
// safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.ImageReport, index int),
) error {
	bp.logger.Debug("starting batch", "files", len(paths), "concurrency", bp.concurrency)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := model.NewImageReport(path)
			if err := bp.pipelineFactory(path).Execute(ctx, report); err != nil {
				bp.logger.Debug("inspection failed", "file", path, "error", err)
			}
			callback(report, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch complete", "files", len(paths), "elapsed", time.Since(start))
	return err
}

package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oss-compliance/license-report/internal/model"
)

// BatchProcessor handles concurrent report generation for multiple source
// directories. It uses errgroup to manage goroutines and respect the
// concurrency limit.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
//  1. It keeps the Pipeline focused on single-directory execution
//  2. It allows different batch strategies later without touching Pipeline
//  3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each source directory.
	// A factory is used so every run gets a fresh pipeline with paths
	// resolved against its own directory.
	pipelineFactory func(dir string) *Pipeline

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.LicenseReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called once per source directory to
// create a fresh pipeline instance, so pipeline state never leaks between
// runs.
func NewBatchProcessor(pipelineFactory func(dir string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.LicenseReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch generates reports for multiple source directories
// concurrently. It respects the configured concurrency limit and context
// cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each directory gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports in input order, even for directories that failed;
// failed runs carry their error in the report. The error return indicates
// cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, dirs []string) ([]*model.LicenseReport, error) {
	bp.logger.Info("starting batch generation",
		"total_dirs", len(dirs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.LicenseReport, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("generating report",
				"dir", dir,
				"index", i+1,
				"total", len(dirs),
			)

			report := model.NewLicenseReport(dir)
			p := bp.pipelineFactory(dir)
			err := p.Execute(ctx, report)

			// Store the result regardless of error; the report carries
			// the error information for failed runs.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("generation failed",
					"dir", dir,
					"error", err,
				)
				return nil
			}

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch generation complete",
		"total_dirs", len(dirs),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback generates reports for multiple directories and
// calls the callback for each completed run. This is useful for streaming
// per-directory output while other runs are still in flight.
//
// The callback receives the report and the index of the directory in the
// original slice. It is called from the goroutine that completed the run,
// so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	dirs []string,
	callback func(report *model.LicenseReport, index int),
) error {
	bp.logger.Info("starting batch generation with callback",
		"total_dirs", len(dirs),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewLicenseReport(dir)
			p := bp.pipelineFactory(dir)
			_ = p.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}

// Package pipeline implements the Federal Register sync pipeline: paginated
// listing fetch with retry, bounded-concurrency detail enrichment, raw
// payload archival, and transactional persistence.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/regsync/fedreg"
	"golang.org/x/time/rate"
)

// Defaults for a sync run.
const (
	DefaultDaysBack    = 30
	DefaultPerPage     = 100
	DefaultMaxRetries  = 3
	DefaultConcurrency = 8
)

// Pipeline orchestrates one sync run. All fields except Lister and Documents
// are optional.
type Pipeline struct {
	Lister    fedreg.Lister
	Details   fedreg.DetailFetcher
	Documents fedreg.DocumentService
	Archive   fedreg.Archive

	// Limiter throttles detail fetches across all workers.
	Limiter *rate.Limiter

	// Concurrency bounds in-flight detail fetches. Defaults to 8.
	Concurrency int

	// RetryDelay returns the backoff before retry number attempt (1-based).
	// Defaults to 2^attempt seconds. Injectable for tests.
	RetryDelay func(attempt int) time.Duration

	Logger *slog.Logger
}

// Options configure a single sync run.
type Options struct {
	// DaysBack is the lookback window in days. Defaults to 30.
	DaysBack int

	// PerPage is the listing page size. Defaults to 100.
	PerPage int

	// MaxPages caps pagination. 0 means no cap.
	MaxPages int

	// MaxRetries bounds attempts for a failing page. Defaults to 3.
	MaxRetries int
}

// Result summarizes a completed sync run.
type Result struct {
	// RunID identifies the run in logs and artifacts.
	RunID string

	// Fetched is the number of shallow records accumulated from listings.
	Fetched int

	// Merged is the number of records after enrichment and dedup by
	// document number.
	Merged int

	// Processed, Unchanged, and Skipped come from the persistence batch.
	Processed int
	Unchanged int
	Skipped   int

	Duration time.Duration
}

// Run executes a full sync: fetch shallow listings, enrich with detail
// records, archive the merged set, and persist. Fetch and enrich failures
// degrade to partial results; only a transactional persistence failure is
// returned as an error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	begin := time.Now()
	result := &Result{RunID: uuid.New().String()}
	logger := p.logger().With("run_id", result.RunID)

	if opts.DaysBack <= 0 {
		opts.DaysBack = DefaultDaysBack
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	end := time.Now().UTC()
	params := fedreg.ListParams{
		StartDate: end.AddDate(0, 0, -opts.DaysBack),
		EndDate:   end,
		PerPage:   opts.PerPage,
	}

	logger.Info("sync starting",
		"start_date", params.StartDate.Format("2006-01-02"),
		"end_date", params.EndDate.Format("2006-01-02"),
		"per_page", params.PerPage,
	)

	shallow := p.fetchShallow(ctx, logger, params, opts)
	result.Fetched = len(shallow)
	if len(shallow) == 0 {
		logger.Warn("no documents fetched")
		result.Duration = time.Since(begin)
		return result, nil
	}

	merged := p.enrich(ctx, logger, shallow)
	result.Merged = len(merged)

	if p.Archive != nil {
		if err := p.Archive.SaveRun(ctx, params, merged); err != nil {
			logger.Warn("run archive failed", "err", err)
		}
	}

	processed, err := p.Documents.ProcessDocuments(ctx, merged)
	if err != nil {
		return nil, err
	}
	result.Processed = processed.Processed
	result.Unchanged = processed.Unchanged
	result.Skipped = processed.Skipped
	result.Duration = time.Since(begin)

	logger.Info("sync finished",
		"fetched", result.Fetched,
		"merged", result.Merged,
		"processed", result.Processed,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"duration", result.Duration,
	)
	return result, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// retryDelay returns the backoff for the given retry attempt (1-based).
func (p *Pipeline) retryDelay(attempt int) time.Duration {
	if p.RetryDelay != nil {
		return p.RetryDelay(attempt)
	}
	return time.Duration(1<<attempt) * time.Second
}

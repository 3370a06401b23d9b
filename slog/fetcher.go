// Package slog provides logging decorators for fedreg service interfaces
// using the standard library structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/regsync/fedreg"
)

// Ensure LoggingLister implements fedreg.Lister.
var _ fedreg.Lister = (*LoggingLister)(nil)

// LoggingLister wraps a Lister with per-page logging.
type LoggingLister struct {
	next   fedreg.Lister
	logger *slog.Logger
}

// NewLoggingLister creates a new LoggingLister.
func NewLoggingLister(next fedreg.Lister, logger *slog.Logger) *LoggingLister {
	return &LoggingLister{next: next, logger: logger}
}

// ListDocuments delegates to the wrapped Lister and logs the operation.
func (l *LoggingLister) ListDocuments(ctx context.Context, params fedreg.ListParams, page int) (listing *fedreg.ListingPage, err error) {
	defer func(begin time.Time) {
		count := 0
		if listing != nil {
			count = len(listing.Results)
		}
		l.logger.Info("list documents",
			"page", page,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.ListDocuments(ctx, params, page)
}

// Ensure LoggingDetailFetcher implements fedreg.DetailFetcher.
var _ fedreg.DetailFetcher = (*LoggingDetailFetcher)(nil)

// LoggingDetailFetcher wraps a DetailFetcher with debug logging.
type LoggingDetailFetcher struct {
	next   fedreg.DetailFetcher
	logger *slog.Logger
}

// NewLoggingDetailFetcher creates a new LoggingDetailFetcher.
func NewLoggingDetailFetcher(next fedreg.DetailFetcher, logger *slog.Logger) *LoggingDetailFetcher {
	return &LoggingDetailFetcher{next: next, logger: logger}
}

// FetchDocument delegates to the wrapped DetailFetcher and logs the operation.
func (l *LoggingDetailFetcher) FetchDocument(ctx context.Context, documentNumber string) (doc fedreg.RawDocument, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("fetch document detail",
			"document_number", documentNumber,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.FetchDocument(ctx, documentNumber)
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/regsync/fedreg"
)

// Ensure LoggingDocumentService implements fedreg.DocumentService.
var _ fedreg.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with logging. Query-path
// errors are logged here and degraded to empty results by the callers, so
// this decorator is the only place they become visible.
type LoggingDocumentService struct {
	next   fedreg.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next fedreg.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// ProcessDocuments delegates to the wrapped service and logs the batch outcome.
func (l *LoggingDocumentService) ProcessDocuments(ctx context.Context, docs []fedreg.RawDocument) (result *fedreg.ProcessResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"batch", len(docs),
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"processed", result.Processed,
				"unchanged", result.Unchanged,
				"skipped", result.Skipped,
			)
		}
		l.logger.Info("process documents", attrs...)
	}(time.Now())
	return l.next.ProcessDocuments(ctx, docs)
}

// SearchDocuments delegates to the wrapped service and logs the query.
func (l *LoggingDocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) (docs []*fedreg.Document, err error) {
	defer func(begin time.Time) {
		l.logger.Info("search documents",
			"query", filter.Query,
			"agency", filter.Agency,
			"limit", filter.Limit,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.SearchDocuments(ctx, filter)
}

package pipeline

import (
	"context"
	"log/slog"

	"github.com/regsync/fedreg"
	"golang.org/x/sync/errgroup"
)

// enrich fetches the detail record for every shallow record and merges it
// on top, detail fields winning. Work fans out over a bounded worker set;
// results land in a slice slot keyed by the record's position, so completion
// order never matters. A failed detail fetch keeps the shallow record.
//
// Shallow records without a resolvable document number are dropped, and
// upstream paging duplicates collapse to their first occurrence, so the
// output holds exactly one merged record per document number.
func (p *Pipeline) enrich(ctx context.Context, logger *slog.Logger, shallow []fedreg.RawDocument) []fedreg.RawDocument {
	type item struct {
		number  string
		shallow fedreg.RawDocument
	}

	items := make([]item, 0, len(shallow))
	seen := make(map[string]struct{}, len(shallow))
	for _, doc := range shallow {
		number := doc.DocumentNumber()
		if number == "" {
			logger.Warn("dropping shallow record without document number")
			continue
		}
		if _, ok := seen[number]; ok {
			logger.Warn("dropping duplicate shallow record", "document_number", number)
			continue
		}
		seen[number] = struct{}{}
		items = append(items, item{number: number, shallow: doc})
	}

	if p.Details == nil || len(items) == 0 {
		merged := make([]fedreg.RawDocument, len(items))
		for i, it := range items {
			merged[i] = it.shallow
		}
		return merged
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	merged := make([]fedreg.RawDocument, len(items))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			if p.Limiter != nil {
				if err := p.Limiter.Wait(ctx); err != nil {
					merged[i] = it.shallow
					return nil
				}
			}
			detail, err := p.Details.FetchDocument(ctx, it.number)
			if err != nil || detail == nil {
				logger.Warn("detail fetch failed, keeping shallow record",
					"document_number", it.number, "err", err)
				merged[i] = it.shallow
				return nil
			}
			merged[i] = it.shallow.Merge(detail)
			return nil
		})
	}
	// Workers always return nil: one slow or failing fetch must never
	// cancel its siblings.
	_ = g.Wait()

	logger.Info("enrichment complete", "documents", len(merged))
	return merged
}

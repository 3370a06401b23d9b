package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/regsync/fedreg"
)

// fetchShallow walks the listing pages sequentially. Pagination is strictly
// sequential: whether page N was the last page is only known from its result
// count. Every received page is archived before the loop advances.
//
// Failures never propagate: a structurally invalid response aborts
// pagination, a transient failure retries the same page with exponential
// backoff until the retry budget is spent, and in both cases the pages
// already accumulated are returned.
func (p *Pipeline) fetchShallow(ctx context.Context, logger *slog.Logger, params fedreg.ListParams, opts Options) []fedreg.RawDocument {
	var all []fedreg.RawDocument
	page := 1
	retries := 0

	for {
		if opts.MaxPages > 0 && page > opts.MaxPages {
			break
		}

		listing, err := p.Lister.ListDocuments(ctx, params, page)
		if err != nil {
			if fedreg.ErrorCode(err) == fedreg.EINVALID {
				logger.Warn("unexpected listing response", "page", page, "err", err)
				break
			}
			retries++
			if retries >= opts.MaxRetries {
				logger.Error("retry budget exhausted for page", "page", page, "retries", retries, "err", err)
				break
			}
			logger.Warn("listing fetch failed, retrying", "page", page, "attempt", retries, "err", err)
			select {
			case <-ctx.Done():
				return all
			case <-time.After(p.retryDelay(retries)):
			}
			continue
		}

		if len(listing.Results) == 0 {
			break
		}
		all = append(all, listing.Results...)

		if p.Archive != nil {
			if err := p.Archive.SavePage(ctx, params, page, listing.Raw); err != nil {
				logger.Warn("page archive failed", "page", page, "err", err)
			}
		}

		if len(listing.Results) < params.PerPage {
			break
		}
		page++
		retries = 0
	}

	logger.Info("shallow fetch complete", "pages", page, "documents", len(all))
	return all
}

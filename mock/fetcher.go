package mock

import (
	"context"

	"github.com/regsync/fedreg"
)

var _ fedreg.Lister = (*Lister)(nil)

// Lister is a mock implementation of fedreg.Lister.
type Lister struct {
	ListDocumentsFn func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error)
}

func (l *Lister) ListDocuments(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
	return l.ListDocumentsFn(ctx, params, page)
}

var _ fedreg.DetailFetcher = (*DetailFetcher)(nil)

// DetailFetcher is a mock implementation of fedreg.DetailFetcher.
type DetailFetcher struct {
	FetchDocumentFn func(ctx context.Context, documentNumber string) (fedreg.RawDocument, error)
}

func (f *DetailFetcher) FetchDocument(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
	return f.FetchDocumentFn(ctx, documentNumber)
}

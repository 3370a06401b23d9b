package mock

import (
	"context"

	"github.com/regsync/fedreg"
)

var _ fedreg.Archive = (*Archive)(nil)

// Archive is a mock implementation of fedreg.Archive.
type Archive struct {
	SavePageFn func(ctx context.Context, params fedreg.ListParams, page int, payload []byte) error
	SaveRunFn  func(ctx context.Context, params fedreg.ListParams, docs []fedreg.RawDocument) error
}

func (a *Archive) SavePage(ctx context.Context, params fedreg.ListParams, page int, payload []byte) error {
	return a.SavePageFn(ctx, params, page, payload)
}

func (a *Archive) SaveRun(ctx context.Context, params fedreg.ListParams, docs []fedreg.RawDocument) error {
	return a.SaveRunFn(ctx, params, docs)
}

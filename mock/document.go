// Package mock provides function-field mock implementations of the fedreg
// service interfaces for testing.
package mock

import (
	"context"

	"github.com/regsync/fedreg"
)

var _ fedreg.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of fedreg.DocumentService.
type DocumentService struct {
	ProcessDocumentsFn func(ctx context.Context, docs []fedreg.RawDocument) (*fedreg.ProcessResult, error)
	SearchDocumentsFn  func(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error)
}

func (s *DocumentService) ProcessDocuments(ctx context.Context, docs []fedreg.RawDocument) (*fedreg.ProcessResult, error) {
	return s.ProcessDocumentsFn(ctx, docs)
}

func (s *DocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
	return s.SearchDocumentsFn(ctx, filter)
}

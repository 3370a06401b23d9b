package mock

import (
	"context"

	"github.com/regsync/fedreg"
)

var _ fedreg.MetadataSource = (*MetadataSource)(nil)

// MetadataSource is a mock implementation of fedreg.MetadataSource.
type MetadataSource struct {
	ComputeMetadataFn func(ctx context.Context) (*fedreg.Metadata, error)
}

func (s *MetadataSource) ComputeMetadata(ctx context.Context) (*fedreg.Metadata, error) {
	return s.ComputeMetadataFn(ctx)
}

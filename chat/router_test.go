package chat_test

import (
	"context"
	"testing"

	"github.com/regsync/fedreg"
	"github.com/regsync/fedreg/chat"
	"github.com/regsync/fedreg/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRouter wires a router over canned metadata and a capture of the search
// filters it issues.
func testRouter(meta *fedreg.Metadata, searched *[]fedreg.SearchFilter) *chat.Router {
	documents := &mock.DocumentService{
		SearchDocumentsFn: func(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
			if searched != nil {
				*searched = append(*searched, filter)
			}
			return []*fedreg.Document{
				{ID: "2025-00001", Title: "Pesticide Tolerances", PublicationDate: "2025-05-01"},
			}, nil
		},
	}
	source := &mock.MetadataSource{
		ComputeMetadataFn: func(ctx context.Context) (*fedreg.Metadata, error) {
			return meta, nil
		},
	}
	return &chat.Router{
		Documents: documents,
		Metadata:  fedreg.NewMetadataCache(source),
	}
}

func domainMetadata() *fedreg.Metadata {
	return &fedreg.Metadata{
		Keywords:      []string{"pesticide", "tolerances", "registration"},
		Agencies:      []string{"Environmental Protection Agency"},
		DocumentTypes: []string{"Rule", "Notice"},
	}
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens int
		ratio  float64
		want   bool
	}{
		{"short input at threshold", 2, 0.33, true},
		{"short input below threshold", 2, 0.32, false},
		{"single token full overlap", 1, 1.0, true},
		{"long input at threshold", 5, 0.18, true},
		{"long input below threshold", 5, 0.17, false},
		{"long input zero overlap", 8, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chat.Accepts(tt.tokens, tt.ratio))
		})
	}
}

func TestRouter_Handle_Commands(t *testing.T) {
	t.Parallel()

	t.Run("empty message prompts for a query", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		out := r.Handle(context.Background(), "   ")
		assert.Contains(t, out, "Please provide a query")
	})

	t.Run("help renders usage with metadata samples", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		out := r.Handle(context.Background(), "help")
		assert.Contains(t, out, "How to use:")
		assert.Contains(t, out, "Environmental Protection Agency")
		assert.Contains(t, out, "- pesticide")
	})

	t.Run("help falls back to canned samples on empty metadata", func(t *testing.T) {
		t.Parallel()

		r := testRouter(&fedreg.Metadata{}, nil)
		out := r.Handle(context.Background(), "HELP")
		assert.Contains(t, out, "Food and Drug Administration")
		assert.Contains(t, out, "- collection")
	})

	t.Run("search routes the remainder as query", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		out := r.Handle(context.Background(), "search quantum entanglement")
		require.Len(t, searched, 1)
		assert.Equal(t, "quantum entanglement", searched[0].Query)
		assert.Equal(t, chat.DefaultLimit, searched[0].Limit)
		assert.Contains(t, out, "Pesticide Tolerances")
	})

	t.Run("search without argument", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		assert.Equal(t, "Usage: search <keyword>", r.Handle(context.Background(), "search  "))
	})

	t.Run("find filters by agency", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		r.Handle(context.Background(), "find Environmental Protection Agency")
		require.Len(t, searched, 1)
		assert.Equal(t, "Environmental Protection Agency", searched[0].Agency)
		assert.Empty(t, searched[0].Query)
	})

	t.Run("recent requires a positive count", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		ctx := context.Background()
		assert.Equal(t, "Usage: recent <N>", r.Handle(ctx, "recent"))
		assert.Equal(t, "Usage: recent <N>", r.Handle(ctx, "recent abc"))
		assert.Equal(t, "Usage: recent <N>", r.Handle(ctx, "recent 0"))
		assert.Equal(t, "Usage: recent <N>", r.Handle(ctx, "recent 5 extra"))
	})

	t.Run("recent passes the count as limit", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		r.Handle(context.Background(), "recent 5")
		require.Len(t, searched, 1)
		assert.Equal(t, 5, searched[0].Limit)
	})
}

func TestRouter_Handle_OverlapGate(t *testing.T) {
	t.Parallel()

	t.Run("domain-relevant free text routes to search", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		out := r.Handle(context.Background(), "Pesticide Registration Deadlines")
		require.Len(t, searched, 1)
		assert.Equal(t, "pesticide registration deadlines", searched[0].Query)
		assert.Contains(t, out, "Pesticide Tolerances")
	})

	t.Run("off-domain free text is refused", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		out := r.Handle(context.Background(), "tell me a joke about cats please")
		assert.Empty(t, searched)
		assert.Contains(t, out, "regulatory queries only")
		assert.Contains(t, out, "`search <keyword>`")
	})

	t.Run("short off-domain input is refused", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		out := r.Handle(context.Background(), "hello")
		assert.Contains(t, out, "regulatory queries only")
	})

	t.Run("short on-domain input routes", func(t *testing.T) {
		t.Parallel()

		var searched []fedreg.SearchFilter
		r := testRouter(domainMetadata(), &searched)
		r.Handle(context.Background(), "pesticide rules")
		assert.Len(t, searched, 1)
	})

	t.Run("punctuation-only input prompts", func(t *testing.T) {
		t.Parallel()

		r := testRouter(domainMetadata(), nil)
		assert.Contains(t, r.Handle(context.Background(), "?!"), "Please provide a query")
	})
}

func TestRouter_Handle_StoreFailure(t *testing.T) {
	t.Parallel()

	documents := &mock.DocumentService{
		SearchDocumentsFn: func(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
			return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "store offline")
		},
	}
	source := &mock.MetadataSource{
		ComputeMetadataFn: func(ctx context.Context) (*fedreg.Metadata, error) {
			return domainMetadata(), nil
		},
	}
	r := &chat.Router{Documents: documents, Metadata: fedreg.NewMetadataCache(source)}

	out := r.Handle(context.Background(), "search pesticide")
	assert.Equal(t, "No relevant regulations found.", out)
}

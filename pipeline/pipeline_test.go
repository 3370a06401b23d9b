package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/regsync/fedreg"
	"github.com/regsync/fedreg/mock"
	"github.com/regsync/fedreg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingOf builds a listing page of n shallow records with sequential
// document numbers starting at offset.
func listingOf(offset, n int) *fedreg.ListingPage {
	results := make([]fedreg.RawDocument, n)
	for i := range results {
		results[i] = fedreg.RawDocument{
			"document_number": fmt.Sprintf("2025-%05d", offset+i),
			"title":           fmt.Sprintf("Document %d", offset+i),
		}
	}
	return &fedreg.ListingPage{Raw: []byte(`{"results":[]}`), Results: results}
}

// capture returns a DocumentService mock that records the batch it receives.
func capture(batch *[]fedreg.RawDocument) *mock.DocumentService {
	return &mock.DocumentService{
		ProcessDocumentsFn: func(ctx context.Context, docs []fedreg.RawDocument) (*fedreg.ProcessResult, error) {
			*batch = append(*batch, docs...)
			return &fedreg.ProcessResult{Processed: len(docs)}, nil
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPipeline_Run_Pagination(t *testing.T) {
	t.Parallel()

	t.Run("stops after a short page", func(t *testing.T) {
		t.Parallel()

		pages := []*fedreg.ListingPage{listingOf(0, 100), listingOf(100, 100), listingOf(200, 45)}
		var calls int
		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				calls++
				require.LessOrEqual(t, page, len(pages))
				return pages[page-1], nil
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{Lister: lister, Documents: capture(&batch), Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{PerPage: 100})
		require.NoError(t, err)
		assert.Equal(t, 245, result.Fetched)
		assert.Equal(t, 245, result.Merged)
		assert.Equal(t, 245, result.Processed)
		assert.Equal(t, 3, calls)
		assert.Len(t, batch, 245)
	})

	t.Run("retry budget bounds attempts and keeps prior pages", func(t *testing.T) {
		t.Parallel()

		var pageTwoAttempts int
		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				if page == 1 {
					return listingOf(0, 100), nil
				}
				pageTwoAttempts++
				return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "upstream 503")
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{
			Lister:     lister,
			Documents:  capture(&batch),
			RetryDelay: func(attempt int) time.Duration { return 0 },
			Logger:     discardLogger(),
		}

		result, err := p.Run(context.Background(), pipeline.Options{PerPage: 100, MaxRetries: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, pageTwoAttempts)
		assert.Equal(t, 100, result.Fetched)
		assert.Len(t, batch, 100)
	})

	t.Run("invalid response aborts without retrying", func(t *testing.T) {
		t.Parallel()

		var pageTwoAttempts int
		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				if page == 1 {
					return listingOf(0, 100), nil
				}
				pageTwoAttempts++
				return nil, fedreg.Errorf(fedreg.EINVALID, "missing results field")
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{Lister: lister, Documents: capture(&batch), Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{PerPage: 100})
		require.NoError(t, err)
		assert.Equal(t, 1, pageTwoAttempts)
		assert.Equal(t, 100, result.Fetched)
	})

	t.Run("max pages caps pagination", func(t *testing.T) {
		t.Parallel()

		var calls int
		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				calls++
				return listingOf((page-1)*100, 100), nil
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{Lister: lister, Documents: capture(&batch), Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{PerPage: 100, MaxPages: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 200, result.Fetched)
	})

	t.Run("empty corpus skips persistence", func(t *testing.T) {
		t.Parallel()

		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				return &fedreg.ListingPage{Raw: []byte(`{"results":[]}`)}, nil
			},
		}
		documents := &mock.DocumentService{
			ProcessDocumentsFn: func(ctx context.Context, docs []fedreg.RawDocument) (*fedreg.ProcessResult, error) {
				t.Fatal("ProcessDocuments must not be called for an empty run")
				return nil, nil
			},
		}

		p := &pipeline.Pipeline{Lister: lister, Documents: documents, Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{})
		require.NoError(t, err)
		assert.Zero(t, result.Fetched)
	})
}

func TestPipeline_Run_Archive(t *testing.T) {
	t.Parallel()

	pages := []*fedreg.ListingPage{listingOf(0, 100), listingOf(100, 30)}
	lister := &mock.Lister{
		ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
			return pages[page-1], nil
		},
	}

	var savedPages []int
	var savedRun int
	archive := &mock.Archive{
		SavePageFn: func(ctx context.Context, params fedreg.ListParams, page int, payload []byte) error {
			savedPages = append(savedPages, page)
			return nil
		},
		SaveRunFn: func(ctx context.Context, params fedreg.ListParams, docs []fedreg.RawDocument) error {
			savedRun = len(docs)
			return nil
		},
	}

	var batch []fedreg.RawDocument
	p := &pipeline.Pipeline{
		Lister:    lister,
		Documents: capture(&batch),
		Archive:   archive,
		Logger:    discardLogger(),
	}

	result, err := p.Run(context.Background(), pipeline.Options{PerPage: 100})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, savedPages)
	assert.Equal(t, 130, savedRun)
	assert.Equal(t, 130, result.Processed)
}

func TestPipeline_Run_Enrichment(t *testing.T) {
	t.Parallel()

	t.Run("detail fields win on merge", func(t *testing.T) {
		t.Parallel()

		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				return &fedreg.ListingPage{Results: []fedreg.RawDocument{
					{"document_number": "2025-00001", "title": "Shallow Title", "type": "Rule"},
				}}, nil
			},
		}
		details := &mock.DetailFetcher{
			FetchDocumentFn: func(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
				return fedreg.RawDocument{"title": "Detail Title", "full_text_xml_url": "https://example.com"}, nil
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{Lister: lister, Details: details, Documents: capture(&batch), Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Merged)
		require.Len(t, batch, 1)
		assert.Equal(t, "Detail Title", batch[0].String("title"))
		assert.Equal(t, "Rule", batch[0].String("type"))
		assert.Equal(t, "https://example.com", batch[0].String("full_text_xml_url"))
	})

	t.Run("failed detail fetch keeps shallow record", func(t *testing.T) {
		t.Parallel()

		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				return &fedreg.ListingPage{Results: []fedreg.RawDocument{
					{"document_number": "2025-00001", "title": "Shallow Title"},
				}}, nil
			},
		}
		details := &mock.DetailFetcher{
			FetchDocumentFn: func(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
				return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "detail endpoint down")
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{Lister: lister, Details: details, Documents: capture(&batch), Logger: discardLogger()}

		result, err := p.Run(context.Background(), pipeline.Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Merged)
		require.Len(t, batch, 1)
		assert.Equal(t, "Shallow Title", batch[0].String("title"))
	})

	t.Run("duplicates collapse and unnumbered records drop", func(t *testing.T) {
		t.Parallel()

		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				return &fedreg.ListingPage{Results: []fedreg.RawDocument{
					{"document_number": "2025-00001", "title": "First"},
					{"document_number": "2025-00001", "title": "Duplicate"},
					{"title": "No Number"},
					{"document_number": "2025-00002", "title": "Second"},
				}}, nil
			},
		}

		var fetched []string
		details := &mock.DetailFetcher{
			FetchDocumentFn: func(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
				fetched = append(fetched, documentNumber)
				return nil, fedreg.Errorf(fedreg.ENOTFOUND, "no detail")
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{
			Lister:      lister,
			Details:     details,
			Documents:   capture(&batch),
			Concurrency: 1,
			Logger:      discardLogger(),
		}

		result, err := p.Run(context.Background(), pipeline.Options{})
		require.NoError(t, err)
		assert.Equal(t, 4, result.Fetched)
		assert.Equal(t, 2, result.Merged)
		assert.Equal(t, []string{"2025-00001", "2025-00002"}, fetched)
		require.Len(t, batch, 2)
		assert.Equal(t, "First", batch[0].String("title"))
	})

	t.Run("in-flight detail fetches stay bounded", func(t *testing.T) {
		t.Parallel()

		lister := &mock.Lister{
			ListDocumentsFn: func(ctx context.Context, params fedreg.ListParams, page int) (*fedreg.ListingPage, error) {
				return listingOf(0, 20), nil
			},
		}

		var inFlight, peak atomic.Int32
		details := &mock.DetailFetcher{
			FetchDocumentFn: func(ctx context.Context, documentNumber string) (fedreg.RawDocument, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return fedreg.RawDocument{"enriched": "yes"}, nil
			},
		}

		var batch []fedreg.RawDocument
		p := &pipeline.Pipeline{
			Lister:      lister,
			Details:     details,
			Documents:   capture(&batch),
			Concurrency: 2,
			Logger:      discardLogger(),
		}

		result, err := p.Run(context.Background(), pipeline.Options{})
		require.NoError(t, err)
		assert.Equal(t, 20, result.Merged)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})
}

package fedreg

import (
	"context"
	"sync"
	"time"
)

// Metadata holds aggregate corpus statistics shared by help text and the
// chat intent gate. A zero-value Metadata is a valid degraded snapshot.
type Metadata struct {
	// TotalDocuments is the number of stored documents.
	TotalDocuments int

	// AgencyEntries is the number of rows in the normalized agency relation.
	AgencyEntries int

	// MostRecent is the latest publication date (YYYY-MM-DD), or "".
	MostRecent string

	// Agencies are the distinct agency names, sorted.
	Agencies []string

	// DocumentTypes are the distinct document types, sorted.
	DocumentTypes []string

	// Keywords are the most frequent non-stopword title tokens.
	Keywords []string
}

// MetadataSource computes a fresh metadata snapshot from the store.
type MetadataSource interface {
	ComputeMetadata(ctx context.Context) (*Metadata, error)
}

// DefaultMetadataTTL is how long a cached snapshot stays valid. Staleness
// within the window is tolerated: the snapshot is derived, not authoritative.
const DefaultMetadataTTL = 15 * time.Second

// MetadataCache caches a single snapshot for a fixed TTL. A failed recompute
// degrades to an empty snapshot rather than propagating an error, so both
// consumers can treat the snapshot as always available.
//
// Concurrent callers past the TTL may recompute simultaneously; the last
// writer wins, which is acceptable for derived data.
type MetadataCache struct {
	source MetadataSource
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snapshot *Metadata
	fetched  time.Time
}

// MetadataCacheOption configures a MetadataCache.
type MetadataCacheOption func(*MetadataCache)

// WithTTL overrides the snapshot time-to-live.
func WithTTL(ttl time.Duration) MetadataCacheOption {
	return func(c *MetadataCache) {
		c.ttl = ttl
	}
}

// WithNowFunc overrides the clock, for testing TTL expiry.
func WithNowFunc(now func() time.Time) MetadataCacheOption {
	return func(c *MetadataCache) {
		c.now = now
	}
}

// NewMetadataCache creates a MetadataCache over the given source.
func NewMetadataCache(source MetadataSource, opts ...MetadataCacheOption) *MetadataCache {
	c := &MetadataCache{
		source: source,
		ttl:    DefaultMetadataTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metadata returns the cached snapshot, recomputing it if expired or absent.
// Never returns nil.
func (c *MetadataCache) Metadata(ctx context.Context) *Metadata {
	c.mu.Lock()
	if c.snapshot != nil && c.now().Sub(c.fetched) < c.ttl {
		snapshot := c.snapshot
		c.mu.Unlock()
		return snapshot
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh recomputes the snapshot immediately, regardless of TTL, and
// returns it. A recompute failure yields an empty snapshot.
func (c *MetadataCache) Refresh(ctx context.Context) *Metadata {
	snapshot, err := c.source.ComputeMetadata(ctx)
	if err != nil || snapshot == nil {
		snapshot = &Metadata{}
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.fetched = c.now()
	c.mu.Unlock()

	return snapshot
}

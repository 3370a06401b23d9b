package fedreg

import "context"

// RawDocument is a document record as received from the Federal Register
// API, either a shallow listing entry or a full detail record. Records stay
// in raw form through the fetch pipeline so that the content hash covers the
// complete upstream payload.
type RawDocument map[string]any

// DocumentNumber returns the source-assigned document number, falling back
// to the id field. Returns "" if neither is present.
func (d RawDocument) DocumentNumber() string {
	if n := d.String("document_number"); n != "" {
		return n
	}
	return d.String("id")
}

// String returns the value for key if it is a string, otherwise "".
func (d RawDocument) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

// Merge overlays a detail record onto a shallow record. Detail fields win on
// conflict. Neither input map is modified.
func (d RawDocument) Merge(detail RawDocument) RawDocument {
	merged := make(RawDocument, len(d)+len(detail))
	for k, v := range d {
		merged[k] = v
	}
	for k, v := range detail {
		merged[k] = v
	}
	return merged
}

// Document is a normalized view of a stored document row, as returned by
// search queries.
type Document struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Excerpt         string   `json:"excerpt"`
	DocumentType    string   `json:"documentType"`
	PublicationDate string   `json:"publicationDate"` // YYYY-MM-DD
	Agencies        []string `json:"agencies"`
}

// SearchFilter represents a filter for SearchDocuments.
type SearchFilter struct {
	// Query is the free-text query. Empty means pure listing mode: every
	// document passes the text condition.
	Query string `json:"query"`

	// Agency, when non-empty, restricts results to documents whose agency
	// list contains an agency with this exact name.
	Agency string `json:"agency"`

	// Limit truncates the final ordered result. Defaults to 25 if <= 0.
	Limit int `json:"limit"`
}

// ProcessResult reports the outcome of a persistence batch.
type ProcessResult struct {
	// Processed is the number of documents inserted or updated.
	Processed int `json:"processed"`

	// Unchanged is the number of documents skipped because their content
	// hash matched the stored row. Counted separately from failures.
	Unchanged int `json:"unchanged"`

	// Skipped is the number of documents dropped due to per-document
	// processing errors.
	Skipped int `json:"skipped"`
}

// DocumentService represents the persisted document corpus.
type DocumentService interface {
	// ProcessDocuments upserts a batch of merged records inside a single
	// transaction, skipping records whose content hash is unchanged.
	// Per-document errors are counted in the result and do not abort the
	// batch; a transaction-level error rolls back the whole batch.
	ProcessDocuments(ctx context.Context, docs []RawDocument) (*ProcessResult, error)

	// SearchDocuments retrieves documents matching the filter, ordered by
	// publication date descending. Relevance from a fulltext index, when one
	// exists, decides inclusion only, never ordering.
	SearchDocuments(ctx context.Context, filter SearchFilter) ([]*Document, error)
}

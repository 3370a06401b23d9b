package fedreg

import (
	"context"
	"time"
)

// ListParams constrain a listing request to a closed publication-date window.
type ListParams struct {
	StartDate time.Time
	EndDate   time.Time
	PerPage   int
}

// ListingPage is one page of shallow document records.
type ListingPage struct {
	// Raw is the exact response payload as received, kept for archival.
	Raw []byte

	// Results are the shallow records parsed from the payload.
	Results []RawDocument
}

// Lister retrieves paginated shallow document listings, newest first.
// A page with fewer than PerPage results is the last page.
type Lister interface {
	ListDocuments(ctx context.Context, params ListParams, page int) (*ListingPage, error)
}

// DetailFetcher retrieves the full record for a single document.
type DetailFetcher interface {
	FetchDocument(ctx context.Context, documentNumber string) (RawDocument, error)
}

// Archive persists raw fetch payloads as a replay/audit trail. The archive
// is never the system of record; failures degrade the audit trail only.
type Archive interface {
	// SavePage stores one listing page payload.
	SavePage(ctx context.Context, params ListParams, page int, payload []byte) error

	// SaveRun stores the full set of merged documents for a sync run.
	SaveRun(ctx context.Context, params ListParams, docs []RawDocument) error
}

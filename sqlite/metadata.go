package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"github.com/regsync/fedreg"
)

// Limits for metadata scans, bounding work on large corpora.
const (
	metadataKeywordCount  = 30
	metadataKeywordMinLen = 4
	metadataTitleScanCap  = 20000
	metadataAgencyScanCap = 10000
)

// Compile-time interface verification.
var _ fedreg.MetadataSource = (*MetadataService)(nil)

// MetadataService computes aggregate corpus statistics from SQLite.
type MetadataService struct {
	db *DB
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(db *DB) *MetadataService {
	return &MetadataService{db: db}
}

// ComputeMetadata builds a fresh metadata snapshot. Agency names come from
// the normalized agencies relation, falling back to the embedded JSON lists
// when the relation is empty.
func (s *MetadataService) ComputeMetadata(ctx context.Context) (*fedreg.Metadata, error) {
	m := &fedreg.Metadata{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&m.TotalDocuments); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM agencies").Scan(&m.AgencyEntries); err != nil {
		return nil, err
	}

	var mostRecent sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(publication_date) FROM documents WHERE publication_date != ''",
	).Scan(&mostRecent)
	if err != nil {
		return nil, err
	}
	m.MostRecent = mostRecent.String

	agencies, err := s.agencyNames(ctx)
	if err != nil {
		return nil, err
	}
	m.Agencies = agencies

	types, err := s.collectStrings(ctx,
		"SELECT DISTINCT document_type FROM documents WHERE document_type != '' ORDER BY document_type")
	if err != nil {
		return nil, err
	}
	m.DocumentTypes = types

	titles, err := s.collectStrings(ctx,
		"SELECT title FROM documents WHERE title != '' LIMIT ?", metadataTitleScanCap)
	if err != nil {
		return nil, err
	}
	m.Keywords = fedreg.TopKeywords(titles, metadataKeywordCount, metadataKeywordMinLen)

	return m, nil
}

// agencyNames prefers the normalized agencies relation; when it is empty it
// reconstructs names from the denormalized lists on the documents.
func (s *MetadataService) agencyNames(ctx context.Context) ([]string, error) {
	names, err := s.collectStrings(ctx,
		"SELECT DISTINCT name FROM agencies WHERE name != '' ORDER BY name")
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		return names, nil
	}

	lists, err := s.collectStrings(ctx,
		"SELECT agencies FROM documents WHERE agencies != '' AND agencies != '[]' LIMIT ?", metadataAgencyScanCap)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, list := range lists {
		for _, name := range fedreg.AgencyNames(list) {
			set[name] = struct{}{}
		}
	}
	names = make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// collectStrings runs a single-column query and returns the values.
func (s *MetadataService) collectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/regsync/fedreg"
)

// Compile-time interface verification.
var _ fedreg.DocumentService = (*DocumentService)(nil)

// DocumentService implements fedreg.DocumentService using SQLite.
type DocumentService struct {
	db *DB

	// Logger receives per-record processing warnings. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// ProcessDocuments upserts a batch of merged records inside one transaction.
// Unchanged records (matching content hash) are counted and skipped without
// a write; per-document failures are counted and the loop continues; only
// transaction begin/commit failures abort the batch.
func (s *DocumentService) ProcessDocuments(ctx context.Context, docs []fedreg.RawDocument) (*fedreg.ProcessResult, error) {
	result := &fedreg.ProcessResult{}
	if len(docs) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "begin batch: %s", err)
	}
	defer tx.Rollback()

	for _, doc := range docs {
		switch err := s.processDocument(ctx, tx, doc); {
		case err == nil:
			result.Processed++
		case err == errUnchanged:
			result.Unchanged++
		default:
			s.logger().Warn("skipping document", "document_number", doc.DocumentNumber(), "err", err)
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fedreg.Errorf(fedreg.EUNAVAILABLE, "commit batch: %s", err)
	}
	return result, nil
}

// errUnchanged signals a content-hash match, distinct from a failure.
var errUnchanged = errors.New("document unchanged")

// processDocument upserts one record plus its agency rows.
func (s *DocumentService) processDocument(ctx context.Context, tx *sql.Tx, doc fedreg.RawDocument) error {
	id := doc.DocumentNumber()
	if id == "" {
		return fedreg.Errorf(fedreg.EINVALID, "document without document number")
	}

	hash := fedreg.ContentHash(doc)

	var stored string
	err := tx.QueryRowContext(ctx, "SELECT content_hash FROM documents WHERE id = ?", id).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == nil && stored == hash {
		return errUnchanged
	}

	rawJSON, err := json.Marshal(doc)
	if err != nil {
		return fedreg.Errorf(fedreg.EINVALID, "marshal raw payload: %s", err)
	}

	documentType := doc.String("type")
	if documentType == "" {
		documentType = doc.String("document_type")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			id, document_number, title, abstract, document_type,
			publication_date, start_page, end_page, page_length,
			pdf_url, html_url, agencies, excerpt, full_text,
			docket_ids, cfr_references, comments_close_on, action,
			raw_json, content_hash, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_number = excluded.document_number,
			title = excluded.title,
			abstract = excluded.abstract,
			document_type = excluded.document_type,
			publication_date = excluded.publication_date,
			start_page = excluded.start_page,
			end_page = excluded.end_page,
			page_length = excluded.page_length,
			pdf_url = excluded.pdf_url,
			html_url = excluded.html_url,
			agencies = excluded.agencies,
			excerpt = excluded.excerpt,
			full_text = excluded.full_text,
			docket_ids = excluded.docket_ids,
			cfr_references = excluded.cfr_references,
			comments_close_on = excluded.comments_close_on,
			action = excluded.action,
			raw_json = excluded.raw_json,
			content_hash = excluded.content_hash,
			last_updated = excluded.last_updated
	`,
		id,
		doc.String("document_number"),
		doc.String("title"),
		doc.String("abstract"),
		documentType,
		publicationDate(doc),
		intField(doc, "start_page"),
		intField(doc, "end_page"),
		intField(doc, "page_length"),
		doc.String("pdf_url"),
		doc.String("html_url"),
		jsonField(doc, "agencies"),
		doc.String("excerpt"),
		doc.String("full_text"),
		jsonField(doc, "docket_ids"),
		jsonField(doc, "cfr_references"),
		doc.String("comments_close_on"),
		doc.String("action"),
		string(rawJSON),
		hash,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	// Agency rows are best effort: a failure here is logged and swallowed,
	// never failing the surrounding document upsert.
	for _, ref := range fedreg.AgencyRefs(doc["agencies"]) {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO agencies (document_id, name, raw_json) VALUES (?, ?, ?)",
			id, ref.Name, string(ref.Raw),
		)
		if err != nil {
			s.logger().Warn("agency insert failed", "document_id", id, "agency", ref.Name, "err", err)
		}
	}

	return nil
}

// SearchDocuments retrieves documents matching the filter. With a non-empty
// query it uses the fulltext index if one exists, otherwise case-insensitive
// substring matching across the searchable columns. Either way the final
// ordering is publication date descending; fulltext relevance decides
// inclusion only.
func (s *DocumentService) SearchDocuments(ctx context.Context, filter fedreg.SearchFilter) ([]*fedreg.Document, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}

	var query strings.Builder
	var args []any

	text := strings.TrimSpace(filter.Query)
	match := ftsQuery(text)

	switch {
	case text != "" && match != "" && s.db.HasFulltextIndex(ctx):
		query.WriteString(`
			SELECT d.id, d.title, d.abstract, d.excerpt, d.document_type, d.publication_date, d.agencies
			FROM documents d
			JOIN documents_fts ON documents_fts.rowid = d.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, match)
	case text != "":
		like := "%" + text + "%"
		query.WriteString(`
			SELECT d.id, d.title, d.abstract, d.excerpt, d.document_type, d.publication_date, d.agencies
			FROM documents d
			WHERE (d.title LIKE ? OR d.abstract LIKE ? OR d.excerpt LIKE ? OR d.full_text LIKE ? OR d.raw_json LIKE ?)`)
		args = append(args, like, like, like, like, like)
	default:
		query.WriteString(`
			SELECT d.id, d.title, d.abstract, d.excerpt, d.document_type, d.publication_date, d.agencies
			FROM documents d
			WHERE 1 = 1`)
	}

	if filter.Agency != "" {
		query.WriteString(`
			AND EXISTS (
				SELECT 1 FROM json_each(d.agencies) AS a
				WHERE json_extract(a.value, '$.name') = ? OR a.value = ?
			)`)
		args = append(args, filter.Agency, filter.Agency)
	}

	query.WriteString(" ORDER BY d.publication_date DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*fedreg.Document
	for rows.Next() {
		var doc fedreg.Document
		var agencies string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Abstract, &doc.Excerpt,
			&doc.DocumentType, &doc.PublicationDate, &agencies); err != nil {
			return nil, err
		}
		doc.Agencies = fedreg.AgencyNames(agencies)
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// ftsQuery turns free text into an FTS5 match expression. Tokens are quoted
// to neutralize operator syntax and OR-joined so multi-word queries match
// like natural-language search. Returns "" if no tokens survive.
func ftsQuery(text string) string {
	tokens := fedreg.Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = `"` + token + `"`
	}
	return strings.Join(quoted, " OR ")
}

// publicationDate extracts and validates the publication date, returning ""
// when absent or unparseable. An unparseable date degrades the field, not
// the document.
func publicationDate(doc fedreg.RawDocument) string {
	raw := doc.String("publication_date")
	if raw == "" {
		return ""
	}
	date, _, _ := strings.Cut(raw, "T")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ""
	}
	return date
}

// intField reads a numeric field, tolerating the float64 type JSON decoding
// produces.
func intField(doc fedreg.RawDocument, key string) int {
	switch v := doc[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// jsonField re-marshals a raw field, defaulting to an empty JSON array so
// that json_each over the column never fails.
func jsonField(doc fedreg.RawDocument, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return "[]"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func (s *DocumentService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Package fs persists raw fetch payloads to the local filesystem. The files
// are a replay/audit trail alongside the SQLite system of record, never a
// source of truth.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/regsync/fedreg"
)

// Ensure Archive implements fedreg.Archive at compile time.
var _ fedreg.Archive = (*Archive)(nil)

// Archive writes one JSON file per listing page and one per sync run,
// named by date window so that re-fetches of the same window overwrite
// their predecessors.
type Archive struct {
	rawDir       string
	processedDir string
}

// NewArchive creates an Archive. rawDir receives per-page payloads,
// processedDir receives per-run merged document sets.
func NewArchive(rawDir, processedDir string) *Archive {
	return &Archive{
		rawDir:       rawDir,
		processedDir: processedDir,
	}
}

// SavePage stores one listing page payload exactly as received.
func (a *Archive) SavePage(ctx context.Context, params fedreg.ListParams, page int, payload []byte) error {
	if err := os.MkdirAll(a.rawDir, 0755); err != nil {
		return err
	}
	name := fmt.Sprintf("federal_register_shallow_%s_%s_page%d.json",
		params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"), page)
	return os.WriteFile(filepath.Join(a.rawDir, name), payload, 0644)
}

// SaveRun stores the full merged document set for a sync run.
func (a *Archive) SaveRun(ctx context.Context, params fedreg.ListParams, docs []fedreg.RawDocument) error {
	if err := os.MkdirAll(a.processedDir, 0755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("federal_register_full_%s_%s.json",
		params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"))
	return os.WriteFile(filepath.Join(a.processedDir, name), payload, 0644)
}

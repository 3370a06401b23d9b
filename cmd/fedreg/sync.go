package main

import (
	"fmt"
	"time"

	"github.com/regsync/fedreg/pipeline"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	result, err := deps.Pipeline.Run(deps.Ctx, pipeline.Options{
		DaysBack:   c.Days,
		PerPage:    c.PerPage,
		MaxPages:   c.MaxPages,
		MaxRetries: c.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	// Best effort: without the index, search falls back to substring
	// matching.
	if err := deps.DB.CreateFulltextIndex(); err != nil {
		deps.Logger.Warn("fulltext index unavailable", "err", err)
	}

	fmt.Fprintf(deps.Stdout, "Sync %s complete: %d fetched, %d merged, %d processed, %d unchanged, %d skipped in %s\n",
		result.RunID, result.Fetched, result.Merged, result.Processed, result.Unchanged, result.Skipped,
		result.Duration.Round(10*time.Millisecond))
	return nil
}

package main

import (
	"fmt"

	"github.com/regsync/fedreg"
)

// Run executes the recent command.
func (c *RecentCmd) Run(deps *Dependencies) error {
	if c.N <= 0 {
		fmt.Fprintln(deps.Stdout, "Usage: recent <N>")
		return nil
	}

	docs, err := deps.Documents.SearchDocuments(deps.Ctx, fedreg.SearchFilter{Limit: c.N})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fedreg.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, fedreg.FormatResults(docs))
	return nil
}

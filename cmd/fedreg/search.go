package main

import (
	"fmt"
	"strings"

	"github.com/regsync/fedreg"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.SearchDocuments(deps.Ctx, fedreg.SearchFilter{
		Query:  strings.Join(c.Query, " "),
		Agency: c.Agency,
		Limit:  c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fedreg.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, fedreg.FormatResults(docs))
	return nil
}

package main

import "fmt"

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	meta := deps.Metadata.Refresh(deps.Ctx)

	fmt.Fprintf(deps.Stdout, "Documents:      %d\n", meta.TotalDocuments)
	fmt.Fprintf(deps.Stdout, "Agency entries: %d\n", meta.AgencyEntries)
	fmt.Fprintf(deps.Stdout, "Agencies:       %d\n", len(meta.Agencies))
	fmt.Fprintf(deps.Stdout, "Document types: %d\n", len(meta.DocumentTypes))
	if meta.MostRecent != "" {
		fmt.Fprintf(deps.Stdout, "Most recent:    %s\n", meta.MostRecent)
	}
	if len(meta.Keywords) > 0 {
		fmt.Fprintf(deps.Stdout, "Top keywords:   %v\n", meta.Keywords)
	}
	return nil
}

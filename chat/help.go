package chat

import (
	"strings"

	"github.com/regsync/fedreg"
)

// Caps on the samples shown in help output.
const (
	helpAgencySample  = 7
	helpKeywordSample = 12
)

// Fallbacks used when the corpus is empty or metadata computation degraded.
var (
	defaultHelpAgencies = []string{
		"Agency for Healthcare Research and Quality",
		"Agricultural Marketing Service",
		"Agriculture Department",
		"Environmental Protection Agency",
		"Food and Drug Administration",
	}
	defaultHelpKeywords = []string{
		"collection", "request", "information", "proposed", "agency",
		"review", "comment", "activities", "program", "public",
	}
)

// helpText renders usage instructions plus live agency and keyword samples
// from the metadata snapshot.
func helpText(meta *fedreg.Metadata) string {
	agencies := meta.Agencies
	if len(agencies) == 0 {
		agencies = defaultHelpAgencies
	}
	keywords := meta.Keywords
	if len(keywords) == 0 {
		keywords = defaultHelpKeywords
	}

	var b strings.Builder
	b.WriteString("Federal Register Search Assistant\n\n")
	b.WriteString("How to use:\n\n")
	b.WriteString("1. Search by keyword\n")
	b.WriteString("   `search <keyword>` — e.g. `search pesticide`\n")
	b.WriteString("   Searches titles, abstracts, and documents containing the keyword.\n\n")
	b.WriteString("2. Find by agency\n")
	b.WriteString("   `find <agency>` — e.g. `find EPA`\n")
	b.WriteString("   Filters documents published by a specific agency.\n\n")
	b.WriteString("3. Get recent documents\n")
	b.WriteString("   `recent <N>` — e.g. `recent 5`\n")
	b.WriteString("   Shows the N most recent documents across all agencies.\n\n")
	b.WriteString("4. Show this help\n")
	b.WriteString("   `help`\n\n")
	b.WriteString("This assistant answers Federal Register / U.S. regulatory queries only.\n\n")

	b.WriteString("Top agencies (sample):\n")
	writeSample(&b, agencies, helpAgencySample)
	b.WriteString("\nPopular keywords (sample):\n")
	writeSample(&b, keywords, helpKeywordSample)

	return strings.TrimRight(b.String(), "\n")
}

func writeSample(b *strings.Builder, items []string, max int) {
	if len(items) > max {
		items = items[:max]
	}
	for _, item := range items {
		b.WriteString("  - " + item + "\n")
	}
}

package fedreg

import "strings"

// maxSummaryRunes bounds the summary carried across the query boundary.
const maxSummaryRunes = 600

// SearchResult is the normalized record returned across the structured-query
// boundary: title, date, agency names, truncated summary.
type SearchResult struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Agencies []string `json:"agencies"`
	Summary  string   `json:"summary"`
}

// NormalizeResult converts a stored document into a SearchResult. The
// summary prefers the excerpt, falls back to the abstract, and is truncated
// to a fixed length.
func NormalizeResult(doc *Document) SearchResult {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	if title == "" {
		title = "(No title)"
	}

	summary := doc.Excerpt
	if summary == "" {
		summary = doc.Abstract
	}
	if summary == "" {
		summary = "No summary available"
	}
	if runes := []rune(summary); len(runes) > maxSummaryRunes {
		summary = string(runes[:maxSummaryRunes])
	}

	return SearchResult{
		Title:    title,
		Date:     doc.PublicationDate,
		Agencies: doc.Agencies,
		Summary:  summary,
	}
}

// FormatResults renders documents as markdown grouped by topic label, in
// first-appearance order. Returns a fixed message for an empty result set.
func FormatResults(docs []*Document) string {
	if len(docs) == 0 {
		return "No relevant regulations found."
	}

	var topics []string
	grouped := make(map[string][]SearchResult)
	for _, doc := range docs {
		topic := TopicForTitle(doc.Title)
		if _, ok := grouped[topic]; !ok {
			topics = append(topics, topic)
		}
		grouped[topic] = append(grouped[topic], NormalizeResult(doc))
	}

	var b strings.Builder
	b.WriteString("# Federal Register Search Results\n\n")
	for _, topic := range topics {
		b.WriteString("## " + topic + "\n\n")
		for _, r := range grouped[topic] {
			agencies := "Unknown"
			if len(r.Agencies) > 0 {
				agencies = strings.Join(r.Agencies, ", ")
			}
			b.WriteString("### " + r.Title + "\n")
			b.WriteString("**Date**: " + r.Date + "\n")
			b.WriteString("**Agencies**: " + agencies + "\n")
			b.WriteString("**Summary**: " + r.Summary + "\n\n")
		}
	}
	b.WriteString("---\n*Use `help` for search tips.*")
	return b.String()
}

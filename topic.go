package fedreg

import "strings"

// topicEntry pairs a title keyword with its topic label.
type topicEntry struct {
	keyword string
	label   string
}

// topicTable maps title keywords to topic labels. Order is part of the
// contract: the first matching keyword wins, so a title mentioning both
// "environment" and "tax" is labeled Environment.
var topicTable = []topicEntry{
	{"environment", "Environment"},
	{"air", "Air Quality"},
	{"energy", "Energy"},
	{"health", "Health"},
	{"medicare", "Healthcare"},
	{"trade", "Trade"},
	{"finance", "Finance"},
	{"tax", "Tax"},
	{"pesticide", "Pesticide"},
}

// TopicForTitle maps a document title to a fixed topic label by first-match
// substring lookup. Titles matching no entry are labeled "General".
func TopicForTitle(title string) string {
	if title == "" {
		return "General"
	}
	lower := strings.ToLower(title)
	for _, entry := range topicTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.label
		}
	}
	return "General"
}

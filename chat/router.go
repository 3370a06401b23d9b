// Package chat interprets single chat-style messages over the synced corpus.
// Explicit commands dispatch directly; anything else passes through a
// bag-of-tokens domain-overlap gate before being treated as a search query.
package chat

import (
	"context"
	"strconv"
	"strings"

	"github.com/regsync/fedreg"
)

// Gate thresholds. Short inputs need a higher proportion of domain-relevant
// tokens to avoid false-positive routing on common words. The values are
// tuning constants, not derived.
const (
	// ShortInputTokens is the token count at or below which the stricter
	// threshold applies.
	ShortInputTokens = 2

	// ShortInputThreshold is the minimum overlap ratio for short inputs.
	ShortInputThreshold = 0.33

	// OverlapThreshold is the minimum overlap ratio for longer inputs.
	OverlapThreshold = 0.18
)

// DefaultLimit is the result limit for searches the router issues.
const DefaultLimit = 25

// Fixed responses.
const (
	promptResponse = "Please provide a query. Use `help` for examples."

	refusalResponse = "This assistant answers Federal Register / U.S. regulatory queries only.\n\n" +
		"Try one of the following:\n" +
		"  `search <keyword>`\n" +
		"  `find <agency>`\n" +
		"  `recent <N>`\n" +
		"  `help`"
)

// Router answers a single free-text message. It keeps no state across calls.
type Router struct {
	Documents fedreg.DocumentService
	Metadata  *fedreg.MetadataCache

	// Limit bounds search results. Defaults to DefaultLimit.
	Limit int
}

// Handle interprets one message and returns a formatted text response.
func (r *Router) Handle(ctx context.Context, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return promptResponse
	}

	lower := strings.ToLower(msg)

	switch {
	case lower == "help":
		return helpText(r.Metadata.Metadata(ctx))

	case strings.HasPrefix(lower, "recent"):
		parts := strings.Fields(msg)
		if len(parts) != 2 {
			return "Usage: recent <N>"
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n <= 0 {
			return "Usage: recent <N>"
		}
		return r.run(ctx, fedreg.SearchFilter{Limit: n})

	case strings.HasPrefix(lower, "find "):
		agency := strings.TrimSpace(msg[len("find "):])
		if agency == "" {
			return "Usage: find <agency>"
		}
		return r.run(ctx, fedreg.SearchFilter{Agency: agency, Limit: r.limit()})

	case strings.HasPrefix(lower, "search "):
		query := strings.TrimSpace(msg[len("search "):])
		if query == "" {
			return "Usage: search <keyword>"
		}
		return r.run(ctx, fedreg.SearchFilter{Query: query, Limit: r.limit()})
	}

	tokens := fedreg.Tokenize(lower)
	if len(tokens) == 0 {
		return promptResponse
	}

	ratio := overlapRatio(tokens, r.vocabulary(ctx))
	if !Accepts(len(tokens), ratio) {
		return refusalResponse
	}
	return r.run(ctx, fedreg.SearchFilter{Query: lower, Limit: r.limit()})
}

// Accepts reports whether an input with the given token count and domain
// overlap ratio routes to search. Exported so the thresholds are testable
// at their exact boundaries.
func Accepts(tokenCount int, overlapRatio float64) bool {
	if tokenCount <= ShortInputTokens {
		return overlapRatio >= ShortInputThreshold
	}
	return overlapRatio >= OverlapThreshold
}

// run executes a search and formats the outcome. A store failure degrades
// to the empty-result response; the logging decorator records the error.
func (r *Router) run(ctx context.Context, filter fedreg.SearchFilter) string {
	docs, err := r.Documents.SearchDocuments(ctx, filter)
	if err != nil {
		docs = nil
	}
	return fedreg.FormatResults(docs)
}

func (r *Router) limit() int {
	if r.Limit > 0 {
		return r.Limit
	}
	return DefaultLimit
}

// vocabulary builds the domain token set from the cached metadata snapshot:
// title keywords, agency names, and document types, all tokenized.
func (r *Router) vocabulary(ctx context.Context) map[string]struct{} {
	meta := r.Metadata.Metadata(ctx)
	vocab := make(map[string]struct{})
	add := func(values []string) {
		for _, v := range values {
			for _, token := range fedreg.Tokenize(v) {
				vocab[token] = struct{}{}
			}
		}
	}
	add(meta.Keywords)
	add(meta.Agencies)
	add(meta.DocumentTypes)
	return vocab
}

// overlapRatio is the fraction of distinct input tokens present in the
// domain vocabulary.
func overlapRatio(tokens []string, vocab map[string]struct{}) float64 {
	distinct := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		distinct[token] = struct{}{}
	}

	matched := 0
	for token := range distinct {
		if _, ok := vocab[token]; ok {
			matched++
		}
	}
	if len(distinct) == 0 {
		return 0
	}
	return float64(matched) / float64(len(distinct))
}

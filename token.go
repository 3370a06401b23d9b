package fedreg

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords are excluded from keyword extraction. The list mirrors the
// boilerplate vocabulary of Federal Register titles.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "are": {}, "was": {}, "have": {}, "has": {}, "will": {},
	"shall": {}, "notice": {}, "of": {}, "to": {}, "in": {}, "a": {},
	"an": {}, "on": {}, "by": {}, "us": {}, "u.s": {}, "be": {}, "is": {},
	"as": {},
}

// Tokenize splits text into lowercase runs of letters, digits, hyphens, and
// apostrophes, with hyphens and apostrophes trimmed from token edges. This
// is the shared tokenization for domain vocabulary and free-text input.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		token := strings.Trim(b.String(), "'-")
		b.Reset()
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TopKeywords returns the n most frequent title tokens of at least minLen
// runes, excluding stopwords and pure-numeric tokens. Ties break
// alphabetically so the result is deterministic.
func TopKeywords(titles []string, n, minLen int) []string {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, token := range Tokenize(title) {
			if len([]rune(token)) < minLen {
				continue
			}
			if _, ok := stopwords[token]; ok {
				continue
			}
			if isNumeric(token) {
				continue
			}
			counts[token]++
		}
	}

	keywords := make([]string, 0, len(counts))
	for token := range counts {
		keywords = append(keywords, token)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if n > 0 && len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return token != ""
}

package document

import (
	"regexp"
	"sort"
	"strings"
)

// KeywordExtractor produces up to maxKeywords ordered keywords for a
// document body. Store.Create tries an injected extractor first and falls
// back to frequencyKeywords when none is configured.
type KeywordExtractor interface {
	Extract(body string, limit int) []string
}

var tokenPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_-]{2,}`)

// stopwords is the small, fixed list of non-content-bearing English tokens
// excluded from frequency-based keyword extraction. No pack repo imports a
// stopword/NLP library for single-document keyword extraction (this is a
// much smaller job than the full-text search libraries the pack uses
// elsewhere), so this is a plain Go map (see DESIGN.md).
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "with": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"this": true, "that": true, "these": true, "those": true, "it": true,
	"as": true, "at": true, "by": true, "from": true, "into": true,
	"not": true, "but": true, "can": true, "will": true, "you": true,
	"your": true, "its": true, "if": true, "then": true, "than": true,
	"has": true, "have": true, "had": true, "each": true, "all": true,
}

// frequencyKeywords is the deterministic fallback: lowercase, tokenize,
// drop stopwords and short tokens, rank by frequency (ties broken by first
// appearance), take the top limit.
func frequencyKeywords(body string, limit int) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(body), -1)

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, tok := range tokens {
		if stopwords[tok] {
			continue
		}
		if _, seen := order[tok]; !seen {
			order[tok] = i
		}
		counts[tok]++
	}

	unique := make([]string, 0, len(counts))
	for tok := range counts {
		unique = append(unique, tok)
	}

	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

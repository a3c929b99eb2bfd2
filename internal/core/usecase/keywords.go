package usecase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Transcripts are mixed Russian/English, so both stop-word sets apply.
var stopWords = map[string]struct{}{
	"что": {}, "как": {}, "где": {}, "когда": {}, "почему": {}, "кто": {},
	"какой": {}, "какая": {}, "какие": {},
	"what": {}, "how": {}, "where": {}, "when": {}, "why": {}, "who": {},
	"which": {}, "the": {}, "is": {}, "are": {},
	"a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {},
}

// extractKeywords normalizes a free-text query into its content-bearing
// terms: lowercased, punctuation stripped, stop-words and tokens of one or
// two runes removed. The result is deduplicated and sorted so that
// downstream float accumulation is deterministic.
func extractKeywords(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, query)

	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// lexicalScore rates a chunk against a keyword set without any external
// index. Each keyword counts exact substring occurrences plus half credit
// for every strictly longer word containing it. The final score multiplies
// match density by keyword coverage, so a single repeated keyword cannot
// dominate a chunk that misses the rest of the query.
func lexicalScore(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}

	total := 0.0
	matched := 0
	for _, kw := range keywords {
		weight := float64(strings.Count(lower, kw))
		for _, word := range words {
			if len(word) > len(kw) && strings.Contains(word, kw) {
				weight += 0.5
			}
		}
		if weight > 0 {
			matched++
		}
		total += weight
	}

	density := total / float64(len(words))
	coverage := float64(matched) / float64(len(keywords))
	return density * coverage
}

func keywordOverlap(query, doc []string) float64 {
	if len(query) == 0 {
		return 0
	}
	docSet := make(map[string]struct{}, len(doc))
	for _, kw := range doc {
		docSet[kw] = struct{}{}
	}
	matches := 0
	for _, kw := range query {
		if _, ok := docSet[kw]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

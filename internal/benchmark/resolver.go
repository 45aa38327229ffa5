package benchmark

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopWords are dropped from query and catalog text before matching.
// Dropping them all may empty a query ("the", "of the"), in which case the
// resolver falls back to the unstripped tokens.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "with": true, "by": true,
	"and": true, "or": true, "do": true, "does": true, "have": true,
	"has": true, "is": true, "are": true, "which": true, "that": true,
	"players": true, "player": true,
}

var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Resolver matches free text or explicit ids to heuristic ids using the
// topic map and the catalog.
type Resolver struct {
	topics     TopicMap
	heuristics []Heuristic
}

// NewResolver builds a resolver over a topic map and a heuristics catalog.
func NewResolver(topics TopicMap, heuristics []Heuristic) *Resolver {
	return &Resolver{topics: topics, heuristics: heuristics}
}

// Resolve finds the heuristic id matching a free-text term. Strategies are
// tried in strict order, first match wins:
//
//  1. topic-map token containment (natural-language phrasing lands here),
//  2. exact id,
//  3. name token containment,
//  4. question-text token containment.
//
// Ties within a strategy go to the first qualifying entry in iteration
// order. Returns "" when nothing matches.
func (r *Resolver) Resolve(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	tokens := queryTokens(term)
	if len(tokens) == 0 {
		return ""
	}

	// Topic map first: ids sorted for deterministic iteration.
	for _, id := range r.topics.IDs() {
		if containsAllTokens(normalizeText(r.topics[id]), tokens) {
			return id
		}
	}

	for _, h := range r.heuristics {
		if h.ID() == term {
			return h.ID()
		}
	}

	for _, h := range r.heuristics {
		if containsAllTokens(normalizeText(h.Name()), tokens) {
			return h.ID()
		}
	}

	for _, h := range r.heuristics {
		if containsAllTokens(normalizeText(h.Question()), tokens) {
			return h.ID()
		}
	}

	return ""
}

// queryTokens normalizes and tokenizes a query, dropping stop words unless
// that would leave nothing to match on.
func queryTokens(term string) []string {
	all := strings.Fields(normalizeText(term))
	kept := make([]string, 0, len(all))
	for _, tok := range all {
		if !stopWords[tok] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return all
	}
	return kept
}

// containsAllTokens reports whether every query token appears as a
// substring of the normalized candidate text.
func containsAllTokens(text string, tokens []string) bool {
	if text == "" {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

// normalizeText strips diacritics, lowercases and trims.
func normalizeText(s string) string {
	folded, _, err := transform.String(diacriticsRemover, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

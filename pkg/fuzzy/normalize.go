// Package fuzzy normalises free-text search queries.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// QueryKey folds a query into a canonical form: compatibility composed,
// lower case, single spaced and trimmed. Queries that differ only in those
// respects share a key.
func (n *Normalizer) QueryKey(query string) string {
	query = norm.NFKC.String(query)
	query = whitespaceRegex.ReplaceAllString(query, " ")
	query = strings.ToLower(query)
	return strings.TrimSpace(query)
}

// QueryLength is the number of characters in the query's key.
func (n *Normalizer) QueryLength(query string) int {
	return utf8.RuneCountInString(n.QueryKey(query))
}

package pokemontcg

import (
	"strings"

	"github.com/masterdex/card-search-go/internal/cards"
)

// BuildQuery translates a search filter into the upstream query syntax.
// Bare terms become a substring wildcard match on their field, terms that
// already contain a colon are taken as explicit field syntax and passed
// through unchanged. Multiple clauses are joined with AND. An empty filter
// yields an empty query.
func BuildQuery(f cards.SearchFilter) string {
	var clauses []string
	if f.Name != "" {
		clauses = append(clauses, fieldClause("name", f.Name))
	}
	if f.Attack != "" {
		clauses = append(clauses, fieldClause("attacks.name", f.Attack))
	}

	return strings.Join(clauses, " AND ")
}

// The upstream query grammar is not escaped, user input is trusted. A term
// like "name:pikachu rarity:rare" reaches the search engine verbatim.
func fieldClause(field, value string) string {
	if strings.Contains(value, ":") {
		return value
	}

	return field + ":*" + value + "*"
}

package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace flattens a query onto one line for the db.statement
// span attribute and caps its length.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimRight(strings.TrimSpace(query), ";")
	if query == "" {
		return query
	}

	normalized := strings.TrimSpace(queryWhitespaceRegex.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

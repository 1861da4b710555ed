package app

import (
	"strings"
	"testing"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace(" SELECT   *\nFROM oauth_sessions \t WHERE session_id = $1; ")
	want := "SELECT * FROM oauth_sessions WHERE session_id = $1"
	if got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}

	long := formatDBQueryForTrace("SELECT " + strings.Repeat("x, ", 400) + "y FROM oauth_sessions")
	if len(long) != maxTracedQueryLength+len("...") || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected truncated query, got length %d", len(long))
	}
}

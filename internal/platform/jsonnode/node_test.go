package jsonnode

import "testing"

func TestGetByName_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		container any
	}{
		{name: "nil", container: nil},
		{name: "object", container: map[string]any{"name": "team_key", "value": "x"}},
		{name: "scalar", container: "team_key"},
		{name: "no matching element", container: []any{[]any{map[string]any{"name": "league_key", "value": "l"}}}},
		{name: "elements are not sequences", container: []any{map[string]any{"name": "team_key", "value": "x"}, "team_key"}},
		{name: "empty inner sequence", container: []any{[]any{}}},
		{name: "inner head not an object", container: []any{[]any{"team_key", "x"}}},
		{name: "name not a string", container: []any{[]any{map[string]any{"name": 42, "value": "x"}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := GetByName(tt.container, "team_key")
			if ok || got != nil {
				t.Fatalf("expected not found, got=%v ok=%v", got, ok)
			}
		})
	}
}

func TestGetByName_ReturnsFirstMatchValue(t *testing.T) {
	t.Parallel()

	container := []any{
		"noise",
		[]any{map[string]any{"name": "name", "value": "Gridiron Gurus"}},
		[]any{map[string]any{"name": "team_key", "value": "nfl.l.1.t.3"}, map[string]any{"ignored": true}},
		[]any{map[string]any{"name": "team_key", "value": "nfl.l.1.t.9"}},
	}

	got, ok := GetByName(container, "team_key")
	if !ok {
		t.Fatalf("expected team_key to be found")
	}
	if got != "nfl.l.1.t.3" {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestNode_ChainedNavigationDegradesToNull(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`{"fantasy_content":{"users":[{"user":null}]}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	games := root.Field("fantasy_content").Field("users").Index(0).Field("user").Index(1).Field("games").Index(0).Field("game")
	if !games.IsNull() {
		t.Fatalf("expected null node, got %v", games.v)
	}
	if len(games.Items()) != 0 {
		t.Fatalf("expected no items from null node")
	}
	if got := games.Named("team_key").String(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := root.Index(3).Field("x").Keyed("y").String(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestNode_Keyed(t *testing.T) {
	t.Parallel()

	root, err := Parse([]byte(`[[{"team_key":"nfl.l.1.t.3"},{"team_id":"3"},{"name":"Gurus"}],{"team_points":{}}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	meta := root.Index(0)
	if got := meta.Keyed("name").String(); got != "Gurus" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := meta.Keyed("team_key").String(); got != "nfl.l.1.t.3" {
		t.Fatalf("unexpected team_key: %q", got)
	}
	if got := meta.Keyed("missing"); !got.IsNull() {
		t.Fatalf("expected null for missing key")
	}
}

func TestNode_Int(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{in: "5", want: 5, wantOK: true},
		{in: " 12 ", want: 12, wantOK: true},
		{in: "7th", want: 7, wantOK: true},
		{in: float64(3), want: 3, wantOK: true},
		{in: "abc", wantOK: false},
		{in: "", wantOK: false},
		{in: nil, wantOK: false},
		{in: []any{"1"}, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := Node{v: tt.in}.Int()
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("Int(%#v)=(%d,%v) want=(%d,%v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNode_StringRendersScalars(t *testing.T) {
	t.Parallel()

	if got := (Node{v: float64(2024)}).String(); got != "2024" {
		t.Fatalf("unexpected number rendering: %q", got)
	}
	if got := (Node{v: map[string]any{"a": 1}}).String(); got != "" {
		t.Fatalf("expected empty rendering for object, got %q", got)
	}
	if got := FirstString(Node{}, Node{v: "  "}, Node{v: "x"}); got != "x" {
		t.Fatalf("unexpected FirstString: %q", got)
	}
}

func TestParse_RejectsNonJSON(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("<html>oops</html>")); err == nil {
		t.Fatalf("expected parse error")
	}
}

// Package jsonnode navigates loosely typed provider JSON.
//
// Yahoo encodes many objects as sequences instead of plain objects: the first
// element carries scalar fields and the siblings carry nested collections.
// Some fields appear as [{"name": "...", "value": ...}] pairs inside those
// sequences. Every accessor here tolerates missing or mistyped intermediates
// and returns a null Node instead of failing, so lookups can be chained.
package jsonnode

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Node wraps a decoded JSON value.
type Node struct {
	v any
}

// Parse decodes raw JSON. A body that is not JSON is an error.
func Parse(raw []byte) (Node, error) {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return Node{}, err
	}
	return Node{v: v}, nil
}

// GetByName scans container for the first element that is itself a sequence
// whose first item is an object with "name" equal to name, and returns that
// item's "value". Non-sequence containers, including nil, report false.
func GetByName(container any, name string) (any, bool) {
	items, ok := container.([]any)
	if !ok {
		return nil, false
	}

	for _, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) == 0 {
			continue
		}
		head, ok := pair[0].(map[string]any)
		if !ok {
			continue
		}
		if got, _ := head["name"].(string); got != name {
			continue
		}

		value, ok := head["value"]
		return value, ok
	}

	return nil, false
}

func (n Node) IsNull() bool {
	return n.v == nil
}

func (n Node) Index(i int) Node {
	items, ok := n.v.([]any)
	if !ok || i < 0 || i >= len(items) {
		return Node{}
	}
	return Node{v: items[i]}
}

func (n Node) Field(key string) Node {
	obj, ok := n.v.(map[string]any)
	if !ok {
		return Node{}
	}
	return Node{v: obj[key]}
}

// Named is GetByName applied to the wrapped value.
func (n Node) Named(name string) Node {
	v, _ := GetByName(n.v, name)
	return Node{v: v}
}

// Keyed returns key from the first object element of a sequence that has it.
// This is the shape Yahoo uses for team and league metadata:
// [{"team_key": "..."}, {"team_id": "1"}, {"name": "..."}].
// On an object it behaves like Field.
func (n Node) Keyed(key string) Node {
	switch v := n.v.(type) {
	case map[string]any:
		return Node{v: v[key]}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if value, ok := obj[key]; ok {
				return Node{v: value}
			}
		}
	}
	return Node{}
}

// Items returns the elements of a sequence, or nil for anything else.
func (n Node) Items() []Node {
	items, ok := n.v.([]any)
	if !ok {
		return nil
	}

	out := make([]Node, 0, len(items))
	for _, item := range items {
		out = append(out, Node{v: item})
	}
	return out
}

// String renders scalars. Objects, sequences and null render as "".
func (n Node) String() string {
	switch v := n.v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int reads an integer from a number or from the leading digits of a string,
// so "7", " 7 " and "7th" all yield 7.
func (n Node) Int() (int, bool) {
	switch v := n.v.(type) {
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	case int:
		return v, true
	case string:
		return parseLeadingInt(v)
	default:
		return 0, false
	}
}

// FirstString returns the first non-empty String among candidates.
func FirstString(candidates ...Node) string {
	for _, candidate := range candidates {
		if s := strings.TrimSpace(candidate.String()); s != "" {
			return s
		}
	}
	return ""
}

func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	out, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return out, true
}

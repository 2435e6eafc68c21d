package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Match evaluates q against a decoded entry and returns true if it matches.
func Match(q Query, doc map[string]any) bool {
	if q == nil {
		return true // No query means match all
	}

	switch n := q.(type) {
	case Equals:
		return evalEquals(n, doc)
	case *Equals:
		return n != nil && evalEquals(*n, doc)
	case Or:
		return evalOr(n, doc)
	case *Or:
		return n != nil && evalOr(*n, doc)
	default:
		return false
	}
}

func evalOr(q Or, doc map[string]any) bool {
	for _, op := range q.Operands {
		if Match(op, doc) {
			return true
		}
	}
	return false
}

func evalEquals(q Equals, doc map[string]any) bool {
	for _, v := range lookupPath(doc, q.Field) {
		if s, ok := scalarString(v); ok && s == q.Value {
			return true
		}
	}
	return false
}

// lookupPath resolves a dotted field path, descending into nested objects
// and fanning out over lists. It returns every scalar found at the path.
func lookupPath(doc map[string]any, path string) []any {
	current := []any{doc}
	for _, key := range strings.Split(path, ".") {
		var next []any
		for _, v := range current {
			for _, item := range flatten(v) {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if child, ok := m[key]; ok {
					next = append(next, child)
				}
			}
		}
		current = next
	}

	var out []any
	for _, v := range current {
		out = append(out, flatten(v)...)
	}
	return out
}

func flatten(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return []any{v}
	}
	var out []any
	for _, item := range list {
		out = append(out, flatten(item)...)
	}
	return out
}

// scalarString formats a scalar JSON value the way it appears in a query.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

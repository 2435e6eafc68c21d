// Package dsl builds Karp query expressions and renders them in the wire syntax
// used by the q parameter of the query endpoint.
package dsl

import "strings"

// Kind tags the variant of a Query node.
type Kind int

const (
	KindEquals Kind = iota
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Query is the interface implemented by all Karp query nodes.
// String renders the node in the wire syntax expected by the Karp API.
type Query interface {
	Kind() Kind
	String() string
	Clone() Query
	Param(name string) (any, error)
	Or(other Query) Query
}

// Equals finds all entries where Field equals Value exactly.
// Stricter than a contains match.
type Equals struct {
	Field string
	Value string
}

// NewEquals creates an Equals query. Neither argument is validated;
// a bad field or value is reported by the server.
func NewEquals(field, value string) Equals {
	return Equals{Field: field, Value: value}
}

func (Equals) Kind() Kind { return KindEquals }

func (e Equals) String() string {
	return "equals|" + e.Field + "|" + e.Value
}

// Clone returns a copy of e. Equals holds no references, so the copy is already deep.
func (e Equals) Clone() Query { return e }

// Or combines e with other, see CombineOr.
func (e Equals) Or(other Query) Query { return CombineOr(e, other) }

// Or finds all entries that match any of its operands.
// Operand order is kept and is visible in the rendered string.
type Or struct {
	Operands []Query
}

// NewOr creates an Or over the given operands. Operands that are themselves
// an Or are spliced in, so the result never directly contains another Or.
// Nil operands are dropped.
func NewOr(operands ...Query) Or {
	o := Or{Operands: make([]Query, 0, len(operands))}
	for _, q := range operands {
		o.add(q)
	}
	return o
}

func (Or) Kind() Kind { return KindOr }

func (o Or) String() string {
	var sb strings.Builder
	sb.WriteString("or(")
	for i, q := range o.Operands {
		if i > 0 {
			sb.WriteString("||")
		}
		sb.WriteString(Render(q))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Clone returns a deep copy of o; the operand slice is not shared.
func (o Or) Clone() Query { return o.clone() }

// Or combines o with other, see CombineOr.
func (o Or) Or(other Query) Query { return CombineOr(o, other) }

func (o Or) clone() Or {
	c := Or{Operands: make([]Query, 0, len(o.Operands))}
	for _, q := range o.Operands {
		c.Operands = append(c.Operands, cloneQuery(q))
	}
	return c
}

// add appends a clone of q, splicing in the operands of a nested Or.
// Nil operands are skipped.
func (o *Or) add(q Query) {
	if isNil(q) {
		return
	}
	if nested, ok := asOr(q); ok {
		for _, op := range nested.Operands {
			o.add(op)
		}
		return
	}
	o.Operands = append(o.Operands, cloneQuery(q))
}

func cloneQuery(q Query) Query {
	if isNil(q) {
		return nil
	}
	return q.Clone()
}

// isNil reports whether q is nil or a nil node pointer.
func isNil(q Query) bool {
	switch n := q.(type) {
	case nil:
		return true
	case *Or:
		return n == nil
	case *Equals:
		return n == nil
	}
	return false
}

// asOr unwraps both Or and *Or.
func asOr(q Query) (Or, bool) {
	switch n := q.(type) {
	case Or:
		return n, true
	case *Or:
		if n == nil {
			return Or{}, false
		}
		return *n, true
	}
	return Or{}, false
}

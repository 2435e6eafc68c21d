package dsl

// LeftCombiner is implemented by queries that decide themselves how they are
// or:ed onto a left-hand leaf. CombineOr gives it precedence over the
// built-in merge rules unless the left operand is already an Or.
type LeftCombiner interface {
	CombineLeft(left Query) Query
}

// CombineOr combines left and right with or.
//
// The result is a single flat Or: an Or operand, at any depth, contributes
// its operands instead of being nested. A nil operand is the identity and
// the other side is returned as a clone. When left is not an Or and right
// implements LeftCombiner, right decides the result. Neither input is
// modified.
func CombineOr(left, right Query) Query {
	if isNil(left) {
		return cloneQuery(right)
	}
	if isNil(right) {
		return cloneQuery(left)
	}

	if _, ok := asOr(left); !ok {
		if lc, ok := right.(LeftCombiner); ok {
			return lc.CombineLeft(left)
		}
	}
	return NewOr(left, right)
}

// Any or:s all queries together from left to right, skipping nil ones.
// It returns nil when no non-nil query is given.
func Any(queries ...Query) Query {
	var q Query
	for _, next := range queries {
		q = CombineOr(q, next)
	}
	return q
}

package dsl

// Render formats q as the Karp API expects it in the q parameter.
// A nil query renders as the empty string.
//
// No escaping is done: a field or value containing '|', '(' or ')' produces a
// string the server may read differently than intended.
func Render(q Query) string {
	if isNil(q) {
		return ""
	}
	return q.String()
}

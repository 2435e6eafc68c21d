package dsl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	agha = NewEquals("baseform", "agha")
	agin = NewEquals("baseform", "agin")
)

func TestEqualsString(t *testing.T) {
	require.Equal(t, "equals|baseform|agha", Render(agha))
	require.Equal(t, "equals||", Render(NewEquals("", "")))
}

func TestCombineOrLeaves(t *testing.T) {
	q := agha.Or(agin)

	require.Equal(t, KindOr, q.Kind())
	require.Equal(t, "or(equals|baseform|agha||equals|baseform|agin)", Render(q))
	require.Equal(t, "or("+Render(agha)+"||"+Render(agin)+")", Render(CombineOr(agha, agin)))
}

func TestCombineOrFlattens(t *testing.T) {
	a := NewEquals("f", "A")
	b := NewEquals("f", "B")
	c := NewEquals("f", "C")
	d := NewEquals("f", "D")

	tests := []struct {
		name     string
		query    Query
		expected string
		operands int
	}{
		{"three leaves", a.Or(b).Or(c), "or(equals|f|A||equals|f|B||equals|f|C)", 3},
		{"four leaves", a.Or(b).Or(c).Or(d), "or(equals|f|A||equals|f|B||equals|f|C||equals|f|D)", 4},
		{"or with or", a.Or(b).Or(c.Or(d)), "or(equals|f|A||equals|f|B||equals|f|C||equals|f|D)", 4},
		{"leaf with or", a.Or(b.Or(c)), "or(equals|f|A||equals|f|B||equals|f|C)", 3},
		{"any", Any(a, b, c, d), "or(equals|f|A||equals|f|B||equals|f|C||equals|f|D)", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := Render(tt.query)
			require.Equal(t, tt.expected, rendered)
			require.Equal(t, 1, strings.Count(rendered, "or("), "nested or in %q", rendered)

			o, ok := tt.query.(Or)
			require.True(t, ok)
			require.Len(t, o.Operands, tt.operands)
			for _, op := range o.Operands {
				require.Equal(t, KindEquals, op.Kind())
			}
		})
	}
}

func TestCombineOrIsNonDestructive(t *testing.T) {
	left := NewOr(agha, agin)
	right := NewOr(NewEquals("baseform", "ok"), NewEquals("baseform", "okker"))

	combined := CombineOr(left, right).(Or)
	require.Len(t, combined.Operands, 4)

	require.Len(t, left.Operands, 2)
	require.Len(t, right.Operands, 2)
	require.Equal(t, "or(equals|baseform|agha||equals|baseform|agin)", Render(left))
	require.Equal(t, "or(equals|baseform|ok||equals|baseform|okker)", Render(right))

	// The result does not share its operand slice with either input.
	combined.Operands[0] = NewEquals("x", "y")
	combined.Operands = append(combined.Operands[:1], combined.Operands[2:]...)
	require.Equal(t, agha, left.Operands[0])
	require.Equal(t, agin, left.Operands[1])
	require.Equal(t, "or(equals|baseform|ok||equals|baseform|okker)", Render(right))
}

func TestCombineOrOnAppendedOr(t *testing.T) {
	// Appending to an Or with spare capacity must not leak into a sibling result.
	base := Or{Operands: make([]Query, 0, 8)}
	base.Operands = append(base.Operands, agha)

	first := base.Or(agin).(Or)
	second := base.Or(NewEquals("baseform", "other")).(Or)

	require.Equal(t, "or(equals|baseform|agha||equals|baseform|agin)", Render(first))
	require.Equal(t, "or(equals|baseform|agha||equals|baseform|other)", Render(second))
	require.Len(t, base.Operands, 1)
}

func TestEmptyOr(t *testing.T) {
	empty := NewOr()
	require.Equal(t, "or()", Render(empty))
	require.Empty(t, empty.Operands)

	ops, err := empty.Param("operands")
	require.NoError(t, err)
	require.Equal(t, []Query{}, ops)

	ops, err = Or{}.Param("ors")
	require.NoError(t, err)
	require.Equal(t, []Query{}, ops)

	chained := NewOr().Or(agha).Or(agin)
	require.Equal(t, Render(agha.Or(agin)), Render(chained))
}

func TestNewOrFlattensOperands(t *testing.T) {
	q := NewOr(NewOr(agha, agin), NewEquals("pos", "nn"))
	require.Equal(t, "or(equals|baseform|agha||equals|baseform|agin||equals|pos|nn)", Render(q))
	require.Len(t, q.Operands, 3)
}

func TestRenderIsRepeatable(t *testing.T) {
	q := agha.Or(agin).Or(NewOr())
	first := Render(q)
	require.Equal(t, first, Render(q))
	require.Equal(t, first, q.String())
	require.Equal(t, "", Render(nil))
}

func TestCloneIsDeep(t *testing.T) {
	o := NewOr(agha, agin)
	c := o.Clone().(Or)

	c.Operands[0] = NewEquals("pos", "vb")
	require.Equal(t, agha, o.Operands[0])
	require.Equal(t, Equals{Field: "baseform", Value: "agha"}, agha.Clone())
}

// firstWins keeps the left operand when or:ed onto something.
type firstWins struct {
	Equals
}

func (f firstWins) CombineLeft(left Query) Query { return left }

func TestCombineOrPrefersLeftCombiner(t *testing.T) {
	q := CombineOr(agha, firstWins{agin})
	require.Equal(t, agha, q)

	// An Or on the left merges the operand like any other leaf.
	q = NewOr(agha, agin).Or(firstWins{NewEquals("x", "y")})
	require.Equal(t, "or(equals|baseform|agha||equals|baseform|agin||equals|x|y)", Render(q))
}

func TestCombineOrNilIsIdentity(t *testing.T) {
	a := NewEquals("f", "A")
	b := NewEquals("f", "B")
	var nilOr *Or

	tests := []struct {
		name     string
		query    Query
		expected string
	}{
		{"combine nil first", CombineOr(nil, a), "equals|f|A"},
		{"combine nil last", CombineOr(a, nil), "equals|f|A"},
		{"combine nil or pointer", CombineOr(NewOr(a, b), nilOr), "or(equals|f|A||equals|f|B)"},
		{"combine both nil", CombineOr(nil, nil), ""},
		{"any nil first", Any(nil, a, b), "or(equals|f|A||equals|f|B)"},
		{"any nil middle", Any(a, nil, b), "or(equals|f|A||equals|f|B)"},
		{"any nil last", Any(a, b, nil), "or(equals|f|A||equals|f|B)"},
		{"any only nil", Any(nil, nil), ""},
		{"new or with nil", NewOr(nil, a, nilOr, nil), "or(equals|f|A)"},
		{"new or of nil", NewOr(nil), "or()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Render(tt.query))

			parsed, err := Parse(Render(tt.query))
			require.NoError(t, err)
			require.Equal(t, tt.expected, Render(parsed))

			if o, ok := tt.query.(Or); ok {
				ops, err := o.Param("operands")
				require.NoError(t, err)
				require.Len(t, ops, strings.Count(tt.expected, "equals|"))
			}
		})
	}
}

func TestCombineOrFlattensHandBuiltOr(t *testing.T) {
	a := NewEquals("f", "A")
	nested := Or{Operands: []Query{NewOr(a, a)}}

	q := nested.Or(a)
	require.Equal(t, "or(equals|f|A||equals|f|A||equals|f|A)", Render(q))
	require.Len(t, q.(Or).Operands, 3)
	require.Len(t, nested.Operands, 1)
}

func TestParam(t *testing.T) {
	v, err := agha.Param("field")
	require.NoError(t, err)
	require.Equal(t, "baseform", v)

	v, err = agha.Param("value")
	require.NoError(t, err)
	require.Equal(t, "agha", v)

	_, err = agha.Param("ors")
	require.ErrorIs(t, err, ErrNoSuchParam)

	v, err = NewEquals("baseform", "").Param("value")
	require.NoError(t, err)
	require.Equal(t, "", v)

	o := NewOr(agha, agin)
	ops, err := o.Param("operands")
	require.NoError(t, err)
	ops.([]Query)[0] = NewEquals("pos", "vb")
	require.Equal(t, agha, o.Operands[0])

	_, err = NewOr().Param("field")
	var perr *ParamError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindOr, perr.Kind)
	require.Equal(t, "field", perr.Name)
}

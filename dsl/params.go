package dsl

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoSuchParam is returned when a query kind does not define a parameter.
var ErrNoSuchParam = errors.New("no such parameter")

// ParamError describes a failed Param lookup.
type ParamError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s query: %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// Param looks up a named parameter: "field" or "value".
// Empty strings are returned as they are.
func (e Equals) Param(name string) (any, error) {
	switch name {
	case "field":
		return e.Field, nil
	case "value":
		return e.Value, nil
	}
	return nil, &ParamError{Kind: KindEquals, Name: name, Err: ErrNoSuchParam}
}

// Param looks up a named parameter: "operands", or its alias "ors".
// Operands is multi-valued and reads as an empty slice when unset. The
// returned slice is a copy.
func (o Or) Param(name string) (any, error) {
	switch name {
	case "operands", "ors":
		if o.Operands == nil {
			return []Query{}, nil
		}
		return slices.Clone(o.Operands), nil
	}
	return nil, &ParamError{Kind: KindOr, Name: name, Err: ErrNoSuchParam}
}

package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// ValidationError describes one rejected part of a request.
type ValidationError struct {
	// Loc is the path to the offending input, items are string or int.
	Loc  []any
	Msg  string
	Type string

	AdditionalProperties map[string]any
}

func (v ValidationError) String() string {
	parts := make([]string, 0, len(v.Loc))
	for _, l := range v.Loc {
		parts = append(parts, fmt.Sprint(l))
	}
	return fmt.Sprintf("%s: %s (%s)", strings.Join(parts, "."), v.Msg, v.Type)
}

// DecodeValidationError decodes a ValidationError from a parsed JSON value.
func DecodeValidationError(v *fastjson.Value) (*ValidationError, error) {
	const model = "ValidationError"
	o, err := object(v, model)
	if err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	loc, err := required(o, model, "loc")
	if err != nil {
		return nil, err
	}
	items, err := loc.Array()
	if err != nil {
		return nil, errors.Wrapf(err, "%s.loc", model)
	}
	ve.Loc = make([]any, 0, len(items))
	for _, item := range items {
		switch item.Type() {
		case fastjson.TypeString:
			b, _ := item.StringBytes()
			ve.Loc = append(ve.Loc, string(b))
		case fastjson.TypeNumber:
			n, err := item.Int()
			if err != nil {
				return nil, errors.Wrapf(err, "%s.loc", model)
			}
			ve.Loc = append(ve.Loc, n)
		default:
			return nil, errors.Errorf("%s.loc: expected string or int, got %s", model, item.Type())
		}
	}

	if ve.Msg, err = requiredString(o, model, "msg"); err != nil {
		return nil, err
	}
	if ve.Type, err = requiredString(o, model, "type"); err != nil {
		return nil, err
	}

	ve.AdditionalProperties = additional(o, "loc", "msg", "type")
	return ve, nil
}

// MarshalJSON implements json.Marshaler, including additional properties.
func (v ValidationError) MarshalJSON() ([]byte, error) {
	loc := v.Loc
	if loc == nil {
		loc = []any{}
	}
	return withAdditional(v.AdditionalProperties, map[string]any{
		"loc":  loc,
		"msg":  v.Msg,
		"type": v.Type,
	})
}

// HTTPValidationError is the body of a 422 response.
type HTTPValidationError struct {
	Detail []ValidationError

	AdditionalProperties map[string]any
}

func (e HTTPValidationError) String() string {
	parts := make([]string, 0, len(e.Detail))
	for _, d := range e.Detail {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

// DecodeHTTPValidationError decodes an HTTPValidationError from a parsed JSON value.
func DecodeHTTPValidationError(v *fastjson.Value) (*HTTPValidationError, error) {
	const model = "HTTPValidationError"
	o, err := object(v, model)
	if err != nil {
		return nil, err
	}

	he := &HTTPValidationError{}
	if d := o.Get("detail"); d != nil && d.Type() != fastjson.TypeNull {
		items, err := d.Array()
		if err != nil {
			return nil, errors.Wrapf(err, "%s.detail", model)
		}
		for i, item := range items {
			ve, err := DecodeValidationError(item)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.detail[%d]", model, i)
			}
			he.Detail = append(he.Detail, *ve)
		}
	}

	he.AdditionalProperties = additional(o, "detail")
	return he, nil
}

// ParseHTTPValidationError decodes an HTTPValidationError from raw JSON.
func ParseHTTPValidationError(data []byte) (*HTTPValidationError, error) {
	return parse(data, DecodeHTTPValidationError)
}

// MarshalJSON implements json.Marshaler, including additional properties.
func (e HTTPValidationError) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if e.Detail != nil {
		fields["detail"] = e.Detail
	}
	return withAdditional(e.AdditionalProperties, fields)
}

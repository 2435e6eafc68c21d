package models

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// QueryResponse is returned by the query endpoint.
type QueryResponse struct {
	Total int
	Hits  []EntryDto
	// Distribution counts hits per resource. It is nil unless the server sent it.
	Distribution map[string]int

	AdditionalProperties map[string]any
}

// DecodeQueryResponse decodes a QueryResponse from a parsed JSON value.
func DecodeQueryResponse(v *fastjson.Value) (*QueryResponse, error) {
	const model = "QueryResponse"
	o, err := object(v, model)
	if err != nil {
		return nil, err
	}

	r := &QueryResponse{}
	if r.Total, err = requiredInt(o, model, "total"); err != nil {
		return nil, err
	}

	hits, err := required(o, model, "hits")
	if err != nil {
		return nil, err
	}
	arr, err := hits.Array()
	if err != nil {
		return nil, errors.Wrapf(err, "%s.hits", model)
	}
	r.Hits = make([]EntryDto, 0, len(arr))
	for i, h := range arr {
		e, err := DecodeEntryDto(h)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.hits[%d]", model, i)
		}
		r.Hits = append(r.Hits, *e)
	}

	if d := o.Get("distribution"); d != nil && d.Type() != fastjson.TypeNull {
		do, err := object(d, model+".distribution")
		if err != nil {
			return nil, err
		}
		r.Distribution = map[string]int{}
		var derr error
		do.Visit(func(key []byte, v *fastjson.Value) {
			n, err := v.Int()
			if err != nil && derr == nil {
				derr = errors.Wrapf(err, "%s.distribution.%s", model, key)
			}
			r.Distribution[string(key)] = n
		})
		if derr != nil {
			return nil, derr
		}
	}

	r.AdditionalProperties = additional(o, "total", "hits", "distribution")
	return r, nil
}

// ParseQueryResponse decodes a QueryResponse from raw JSON.
func ParseQueryResponse(data []byte) (*QueryResponse, error) {
	return parse(data, DecodeQueryResponse)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *QueryResponse) UnmarshalJSON(data []byte) error {
	decoded, err := ParseQueryResponse(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler, including additional properties.
func (r QueryResponse) MarshalJSON() ([]byte, error) {
	hits := r.Hits
	if hits == nil {
		hits = []EntryDto{}
	}
	return withAdditional(r.AdditionalProperties, map[string]any{
		"total":        r.Total,
		"hits":         hits,
		"distribution": r.Distribution,
	})
}

// Package models holds the data transfer objects of the Karp API.
//
// Decoding goes through fastjson. Keys a model does not know are kept in its
// AdditionalProperties and written back out by MarshalJSON.
package models

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// parse runs decode on the parsed form of data, with a pooled parser.
func parse[T any](data []byte, decode func(*fastjson.Value) (T, error)) (T, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	var zero T
	v, err := p.ParseBytes(data)
	if err != nil {
		return zero, errors.Wrap(err, "invalid JSON")
	}
	return decode(v)
}

// object returns v as an object or an error naming the model.
func object(v *fastjson.Value, model string) (*fastjson.Object, error) {
	if v == nil {
		return nil, errors.Errorf("%s: missing value", model)
	}
	o, err := v.Object()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: expected object", model)
	}
	return o, nil
}

func required(o *fastjson.Object, model, key string) (*fastjson.Value, error) {
	v := o.Get(key)
	if v == nil {
		return nil, errors.Errorf("%s: missing required key %q", model, key)
	}
	return v, nil
}

func requiredString(o *fastjson.Object, model, key string) (string, error) {
	v, err := required(o, model, key)
	if err != nil {
		return "", err
	}
	b, err := v.StringBytes()
	if err != nil {
		return "", errors.Wrapf(err, "%s.%s", model, key)
	}
	return string(b), nil
}

func requiredInt(o *fastjson.Object, model, key string) (int, error) {
	v, err := required(o, model, key)
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if err != nil {
		return 0, errors.Wrapf(err, "%s.%s", model, key)
	}
	return n, nil
}

// additional collects every key of o not in known.
func additional(o *fastjson.Object, known ...string) map[string]any {
	props := map[string]any{}
	o.Visit(func(key []byte, v *fastjson.Value) {
		k := string(key)
		for _, kn := range known {
			if k == kn {
				return
			}
		}
		props[k] = toAny(v)
	})
	return props
}

// toAny converts a fastjson value to the types encoding/json would produce.
func toAny(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		m := map[string]any{}
		o, _ := v.Object()
		o.Visit(func(key []byte, child *fastjson.Value) {
			m[string(key)] = toAny(child)
		})
		return m
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			out = append(out, toAny(item))
		}
		return out
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}

// withAdditional merges props under fields; fields win on conflicts.
func withAdditional(props map[string]any, fields map[string]any) ([]byte, error) {
	out := make(map[string]any, len(props)+len(fields))
	for k, v := range props {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}

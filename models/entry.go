package models

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// EntryDto is a single entry as returned by the Karp API.
type EntryDto struct {
	ID             string
	Version        int
	LastModified   float64
	LastModifiedBy string
	Resource       string
	// Entry is the free-form entry body, its shape depends on the resource.
	Entry     map[string]any
	Message   *string
	Discarded bool

	AdditionalProperties map[string]any
}

var entryKeys = []string{"id", "version", "last_modified", "last_modified_by", "resource", "entry", "message", "discarded"}

// DecodeEntryDto decodes an EntryDto from a parsed JSON value.
func DecodeEntryDto(v *fastjson.Value) (*EntryDto, error) {
	const model = "EntryDto"
	o, err := object(v, model)
	if err != nil {
		return nil, err
	}

	e := &EntryDto{}
	if e.ID, err = requiredString(o, model, "id"); err != nil {
		return nil, err
	}
	if e.Version, err = requiredInt(o, model, "version"); err != nil {
		return nil, err
	}
	lm, err := required(o, model, "last_modified")
	if err != nil {
		return nil, err
	}
	if e.LastModified, err = lm.Float64(); err != nil {
		return nil, errors.Wrapf(err, "%s.last_modified", model)
	}
	if e.LastModifiedBy, err = requiredString(o, model, "last_modified_by"); err != nil {
		return nil, err
	}
	if e.Resource, err = requiredString(o, model, "resource"); err != nil {
		return nil, err
	}
	body, err := required(o, model, "entry")
	if err != nil {
		return nil, err
	}
	if e.Entry, err = decodeEntryBody(body); err != nil {
		return nil, err
	}

	if msg := o.Get("message"); msg != nil && msg.Type() != fastjson.TypeNull {
		b, err := msg.StringBytes()
		if err != nil {
			return nil, errors.Wrapf(err, "%s.message", model)
		}
		s := string(b)
		e.Message = &s
	}
	if d := o.Get("discarded"); d != nil {
		if e.Discarded, err = d.Bool(); err != nil {
			return nil, errors.Wrapf(err, "%s.discarded", model)
		}
	}

	e.AdditionalProperties = additional(o, entryKeys...)
	return e, nil
}

func decodeEntryBody(v *fastjson.Value) (map[string]any, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, errors.Errorf("EntryDto.entry: expected object, got %s", v.Type())
	}
	return toAny(v).(map[string]any), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EntryDto) UnmarshalJSON(data []byte) error {
	decoded, err := parse(data, DecodeEntryDto)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler, including additional properties.
func (e EntryDto) MarshalJSON() ([]byte, error) {
	fields := map[string]any{
		"id":               e.ID,
		"version":          e.Version,
		"last_modified":    e.LastModified,
		"last_modified_by": e.LastModifiedBy,
		"resource":         e.Resource,
		"entry":            e.Entry,
		"discarded":        e.Discarded,
	}
	if e.Message != nil {
		fields["message"] = *e.Message
	}
	return withAdditional(e.AdditionalProperties, fields)
}

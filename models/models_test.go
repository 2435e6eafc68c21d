package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const queryResponseJSON = `{
	"total": 2,
	"hits": [
		{
			"id": "01H8XYZ",
			"version": 3,
			"last_modified": 1700000000.5,
			"last_modified_by": "editor",
			"resource": "schlyter",
			"entry": {"baseform": "agha", "senses": [{"gloss": "to drive"}]},
			"message": null,
			"extra": "kept"
		},
		{
			"id": "01H8XZA",
			"version": 1,
			"last_modified": 1700000001,
			"last_modified_by": "importer",
			"resource": "soederwall",
			"entry": {"baseform": "agin"},
			"message": "imported",
			"discarded": true
		}
	],
	"distribution": {"schlyter": 1, "soederwall": 1},
	"took": 12
}`

func TestParseQueryResponse(t *testing.T) {
	r, err := ParseQueryResponse([]byte(queryResponseJSON))
	require.NoError(t, err)

	require.Equal(t, 2, r.Total)
	require.Len(t, r.Hits, 2)
	require.Equal(t, map[string]int{"schlyter": 1, "soederwall": 1}, r.Distribution)
	require.Equal(t, map[string]any{"took": float64(12)}, r.AdditionalProperties)

	first := r.Hits[0]
	require.Equal(t, "01H8XYZ", first.ID)
	require.Equal(t, 3, first.Version)
	require.Equal(t, 1700000000.5, first.LastModified)
	require.Equal(t, "editor", first.LastModifiedBy)
	require.Equal(t, "schlyter", first.Resource)
	require.Equal(t, "agha", first.Entry["baseform"])
	require.Equal(t, []any{map[string]any{"gloss": "to drive"}}, first.Entry["senses"])
	require.Nil(t, first.Message)
	require.False(t, first.Discarded)
	require.Equal(t, map[string]any{"extra": "kept"}, first.AdditionalProperties)

	second := r.Hits[1]
	require.NotNil(t, second.Message)
	require.Equal(t, "imported", *second.Message)
	require.True(t, second.Discarded)
	require.Empty(t, second.AdditionalProperties)
}

func TestParseQueryResponseWithoutDistribution(t *testing.T) {
	r, err := ParseQueryResponse([]byte(`{"total": 0, "hits": [], "distribution": null}`))
	require.NoError(t, err)
	require.Nil(t, r.Distribution)
	require.Empty(t, r.Hits)
}

func TestParseQueryResponseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", `{"total":`, "invalid JSON"},
		{"not an object", `[1, 2]`, "QueryResponse: expected object"},
		{"missing total", `{"hits": []}`, `missing required key "total"`},
		{"missing hits", `{"total": 1}`, `missing required key "hits"`},
		{"bad hit", `{"total": 1, "hits": [{"id": "x"}]}`, `QueryResponse.hits[0]: EntryDto: missing required key "version"`},
		{"entry not object", `{"total": 1, "hits": [{"id": "x", "version": 1, "last_modified": 1, "last_modified_by": "a", "resource": "r", "entry": []}]}`, "EntryDto.entry: expected object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQueryResponse([]byte(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEntryDtoMarshalKeepsAdditionalProperties(t *testing.T) {
	msg := "hello"
	e := EntryDto{
		ID:                   "1",
		Version:              2,
		LastModified:         3.5,
		LastModifiedBy:       "me",
		Resource:             "res",
		Entry:                map[string]any{"baseform": "agha"},
		Message:              &msg,
		AdditionalProperties: map[string]any{"extra": "kept", "id": "shadowed"},
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "1",
		"version": 2,
		"last_modified": 3.5,
		"last_modified_by": "me",
		"resource": "res",
		"entry": {"baseform": "agha"},
		"message": "hello",
		"discarded": false,
		"extra": "kept"
	}`, string(data))
}

func TestParseHTTPValidationError(t *testing.T) {
	he, err := ParseHTTPValidationError([]byte(`{
		"detail": [
			{"loc": ["query", "q"], "msg": "unknown query kind", "type": "value_error"},
			{"loc": ["query", "size", 0], "msg": "not an int", "type": "type_error", "ctx": {"limit": 1}}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, he.Detail, 2)

	require.Equal(t, []any{"query", "q"}, he.Detail[0].Loc)
	require.Equal(t, "unknown query kind", he.Detail[0].Msg)
	require.Equal(t, "value_error", he.Detail[0].Type)
	require.Equal(t, []any{"query", "size", 0}, he.Detail[1].Loc)
	require.Equal(t, map[string]any{"ctx": map[string]any{"limit": float64(1)}}, he.Detail[1].AdditionalProperties)

	require.Equal(t, "query.q: unknown query kind (value_error); query.size.0: not an int (type_error)", he.String())
}

func TestParseHTTPValidationErrorWithoutDetail(t *testing.T) {
	he, err := ParseHTTPValidationError([]byte(`{"message": "bad"}`))
	require.NoError(t, err)
	require.Nil(t, he.Detail)
	require.Equal(t, map[string]any{"message": "bad"}, he.AdditionalProperties)

	_, err = ParseHTTPValidationError([]byte(`{"detail": [{"loc": [true], "msg": "m", "type": "t"}]}`))
	require.Error(t, err)
}

func TestUnmarshalJSONUsesDecoder(t *testing.T) {
	var r QueryResponse
	require.NoError(t, json.Unmarshal([]byte(queryResponseJSON), &r))
	require.Equal(t, 2, r.Total)
	require.Equal(t, "soederwall", r.Hits[1].Resource)
}

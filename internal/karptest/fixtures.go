package karptest

import "github.com/spraakbanken/karp-client-go/models"

// SampleEntries returns a small lexicon spread over three resources.
func SampleEntries() []models.EntryDto {
	entry := func(id, resource string, body map[string]any) models.EntryDto {
		return models.EntryDto{
			ID:             id,
			Version:        1,
			LastModified:   1700000000,
			LastModifiedBy: "importer",
			Resource:       resource,
			Entry:          body,
		}
	}

	return []models.EntryDto{
		entry("e1", "schlyter", map[string]any{"baseform": "agha", "pos": "vb"}),
		entry("e2", "schlyter", map[string]any{"baseform": "agin", "pos": "nn"}),
		entry("e3", "soederwall", map[string]any{"baseform": "agha", "pos": "vb", "senses": []any{map[string]any{"gloss": "to drive"}}}),
		entry("e4", "soederwall", map[string]any{"baseform": "akker", "pos": "nn"}),
		entry("e5", "soederwall-supp", map[string]any{"baseform": "agin", "pos": "nn"}),
		{
			ID:             "e6",
			Version:        2,
			LastModified:   1700000100,
			LastModifiedBy: "editor",
			Resource:       "schlyter",
			Entry:          map[string]any{"baseform": "agha"},
			Discarded:      true,
		},
	}
}

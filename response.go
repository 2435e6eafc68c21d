package karp

import "net/http"

// Response is a reply from the Karp API.
// Content holds the decompressed body, Parsed its decoded form.
type Response[T any] struct {
	StatusCode int
	Content    []byte
	Header     http.Header
	Parsed     T
}

// withParsed carries the metadata of raw over to a response holding parsed.
func withParsed[T any](raw *Response[[]byte], parsed T) *Response[T] {
	return &Response[T]{
		StatusCode: raw.StatusCode,
		Content:    raw.Content,
		Header:     raw.Header,
		Parsed:     parsed,
	}
}

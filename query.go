package karp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/spraakbanken/karp-client-go/dsl"
	"github.com/spraakbanken/karp-client-go/models"
)

// QueryOptions adapts a query. Zero values are left out of the request,
// except for LexiconStats and Highlight which are sent whenever set.
type QueryOptions struct {
	Q            dsl.Query
	From         int
	Size         int
	Sort         []string
	LexiconStats *bool
	Path         string
	Highlight    *bool
}

// Bool returns a pointer to b, for the optional flags of QueryOptions.
func Bool(b bool) *bool { return &b }

// Encode formats o as a URL query string. The rendered query goes under q.
func (o *QueryOptions) Encode() string {
	if o == nil {
		return ""
	}

	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+escapeQueryValue(value))
	}

	if q := dsl.Render(o.Q); q != "" {
		add("q", q)
	}
	if o.From != 0 {
		add("from", strconv.Itoa(o.From))
	}
	if o.Size != 0 {
		add("size", strconv.Itoa(o.Size))
	}
	if len(o.Sort) > 0 {
		add("sort", strings.Join(o.Sort, ","))
	}
	if o.LexiconStats != nil {
		add("lexicon_stats", strconv.FormatBool(*o.LexiconStats))
	}
	if o.Path != "" {
		add("path", o.Path)
	}
	if o.Highlight != nil {
		add("highlight", strconv.FormatBool(*o.Highlight))
	}
	return strings.Join(parts, "&")
}

// escapeQueryValue percent-encodes s with spaces as %20.
func escapeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Query searches the given resources.
//
// A 422 reply is returned as an *ErrorResponse carrying the validation details.
// Other failure statuses give an *ErrorResponse without details, or an
// *UnexpectedStatusError when Options.RaiseOnUnexpectedStatus is set.
func (c *Client) Query(ctx context.Context, resources []string, opts *QueryOptions) (*Response[*models.QueryResponse], error) {
	ids := pathSegments(resources)
	if ids == "" {
		return nil, errors.New("query: no resources given")
	}

	raw, err := c.do(ctx, http.MethodGet, "/query/"+ids, opts.Encode())
	if err != nil {
		return nil, err
	}

	switch raw.StatusCode {
	case http.StatusOK:
		parsed, err := decodeJSON(c, raw.Content, models.DecodeQueryResponse)
		if err != nil {
			return nil, errors.Wrap(err, "query")
		}
		return withParsed(raw, parsed), nil
	case http.StatusUnprocessableEntity:
		parsed, err := decodeJSON(c, raw.Content, models.DecodeHTTPValidationError)
		if err != nil {
			return nil, errors.Wrap(err, "query")
		}
		return nil, &ErrorResponse{Response: withParsed(raw, parsed)}
	default:
		return nil, c.unexpected(raw)
	}
}

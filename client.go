// Package karp is a client for the Karp lexical resource API.
//
// Queries are built with the dsl package and sent with Client.Query:
//
//	c := karp.New(karp.Options{})
//	q := dsl.NewEquals("baseform", "agha").Or(dsl.NewEquals("baseform", "agin"))
//	resp, err := c.Query(ctx, []string{"schlyter", "soederwall"}, &karp.QueryOptions{Q: q, Size: 25})
package karp

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/spraakbanken/karp-client-go/internal/config"
	"github.com/spraakbanken/karp-client-go/models"
)

// DefaultBaseURL is the public Karp v7 API.
const DefaultBaseURL = "https://spraakbanken4.it.gu.se/karp/v7"

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as the api_key query parameter when set.
	Token   string
	Headers map[string]string
	Cookies []*http.Cookie
	// Timeout bounds each request, zero means no timeout.
	Timeout         time.Duration
	FollowRedirects bool
	// RaiseOnUnexpectedStatus makes undocumented status codes return an
	// *UnexpectedStatusError instead of an *ErrorResponse.
	RaiseOnUnexpectedStatus bool
	// HTTPClient replaces the default client. Timeout and FollowRedirects
	// are ignored when it is set, also by WithTimeout.
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the Karp API. It is safe for concurrent use.
type Client struct {
	opts       Options
	httpClient *http.Client
	log        zerolog.Logger
	parser     *fastjson.ParserPool
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	c := &Client{
		opts:       opts,
		httpClient: opts.HTTPClient,
		log:        zerolog.Nop(),
		parser:     &fastjson.ParserPool{},
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   opts.Timeout,
		}
		if !opts.FollowRedirects {
			c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}
		}
	}
	return c
}

// NewFromEnv creates an authenticated Client configured from the environment.
// The token is read from KARP_API_CLIENT_API_TOKEN, falling back to KARP_API_TOKEN.
func NewFromEnv() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.APIToken == "" {
		return nil, errors.Errorf("must set %s or %s", config.EnvAPIToken, config.EnvAPITokenFallback)
	}
	return New(Options{
		BaseURL: cfg.BaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout,
	}), nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// WithBaseURL returns a copy of c sending requests to baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c2 := c.clone()
	c2.opts.BaseURL = baseURL
	return c2
}

// WithHeaders returns a copy of c that also sends headers.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	c2 := c.clone()
	if c2.opts.Headers == nil {
		c2.opts.Headers = make(map[string]string, len(headers))
	}
	maps.Copy(c2.opts.Headers, headers)
	return c2
}

// WithCookies returns a copy of c that also sends cookies, replacing
// existing cookies with the same name.
func (c *Client) WithCookies(cookies ...*http.Cookie) *Client {
	c2 := c.clone()
	for _, ck := range cookies {
		c2.opts.Cookies = slices.DeleteFunc(c2.opts.Cookies, func(old *http.Cookie) bool {
			return old.Name == ck.Name
		})
		c2.opts.Cookies = append(c2.opts.Cookies, ck)
	}
	return c2
}

// WithTimeout returns a copy of c with a new request timeout. A client built
// with Options.HTTPClient keeps using that client unchanged.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c2 := c.clone()
	c2.opts.Timeout = timeout
	if c.opts.HTTPClient == nil {
		hc := *c.httpClient
		hc.Timeout = timeout
		c2.httpClient = &hc
	}
	return c2
}

func (c *Client) clone() *Client {
	c2 := *c
	c2.opts.Headers = maps.Clone(c.opts.Headers)
	c2.opts.Cookies = slices.Clone(c.opts.Cookies)
	return &c2
}

// do sends a request and reads the whole, decompressed, body.
func (c *Client) do(ctx context.Context, method, path, rawQuery string) (*Response[[]byte], error) {
	requestID := uuid.NewString()
	req, err := c.newRequest(ctx, method, path, rawQuery, requestID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("karp request failed")
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	content, err := readBody(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response of %s %s", method, path)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("karp request")

	return &Response[[]byte]{
		StatusCode: resp.StatusCode,
		Content:    content,
		Header:     resp.Header,
		Parsed:     content,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery, requestID string) (*http.Request, error) {
	if c.opts.Token != "" {
		auth := "api_key=" + escapeQueryValue(c.opts.Token)
		if rawQuery == "" {
			rawQuery = auth
		} else {
			rawQuery += "&" + auth
		}
	}

	u := strings.TrimRight(c.opts.BaseURL, "/") + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", path)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	req.Header.Set("X-Request-Id", requestID)
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}
	for _, ck := range c.opts.Cookies {
		req.AddCookie(ck)
	}
	return req, nil
}

// unexpected builds the error for a status the endpoint does not document.
func (c *Client) unexpected(raw *Response[[]byte]) error {
	c.log.Warn().Int("status", raw.StatusCode).Msg("karp returned an undocumented status")
	if c.opts.RaiseOnUnexpectedStatus {
		return &UnexpectedStatusError{StatusCode: raw.StatusCode, Content: raw.Content}
	}
	return &ErrorResponse{Response: withParsed[*models.HTTPValidationError](raw, nil)}
}

// decodeJSON parses content with the client's parser pool.
func decodeJSON[T any](c *Client, content []byte, decode func(*fastjson.Value) (T, error)) (T, error) {
	p := c.parser.Get()
	defer c.parser.Put(p)

	var zero T
	v, err := p.ParseBytes(content)
	if err != nil {
		return zero, errors.Wrap(err, "invalid JSON in response")
	}
	return decode(v)
}

// pathSegments escapes each resource id and joins them with ','.
// A single id may itself be a comma-separated list.
func pathSegments(resources []string) string {
	var ids []string
	for _, r := range resources {
		for _, id := range strings.Split(r, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, url.PathEscape(id))
			}
		}
	}
	return strings.Join(ids, ",")
}

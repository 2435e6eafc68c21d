// Package karptest provides an in-process fake of the Karp query API for tests.
package karptest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/spraakbanken/karp-client-go/dsl"
	"github.com/spraakbanken/karp-client-go/models"
)

const defaultSize = 25

// Request is a request as seen by the server.
type Request struct {
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
}

// Server answers /query/{resources} from a Store.
type Server struct {
	store *Store
	log   zerolog.Logger

	// DisableCompression makes the server ignore Accept-Encoding.
	DisableCompression bool

	mu       sync.Mutex
	requests []Request
	status   int
	body     []byte
}

// NewServer creates a server backed by store.
func NewServer(store *Store, logger zerolog.Logger) *Server {
	return &Server{
		store: store,
		log:   logger,
	}
}

// Handler returns the HTTP handler of the fake API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query/", s.handleQuery)
	return mux
}

// FailWith makes every following request answer status with body.
// A zero status restores normal operation.
func (s *Server) FailWith(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = []byte(body)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the latest request, or false if there was none.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(r *http.Request) (status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Header:   r.Header.Clone(),
	})
	return s.status, s.body
}

// handleQuery processes GET /query/{resources} requests.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		w.Header().Set("X-Request-Id", id)
	}

	if status, body := s.record(r); status != 0 {
		w.WriteHeader(status)
		w.Write(body)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	if !s.store.Authorized(params.Get("api_key")) {
		s.writeJSON(w, r, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}

	resources := map[string]bool{}
	for _, id := range strings.Split(strings.TrimPrefix(r.URL.Path, "/query/"), ",") {
		if id != "" {
			resources[id] = true
		}
	}

	var details []models.ValidationError
	q, err := dsl.Parse(params.Get("q"))
	if err != nil {
		details = append(details, invalid("q", err.Error(), "value_error"))
	}
	from, ok := intParam(params, "from", 0)
	if !ok {
		details = append(details, invalid("from", "Input should be a valid integer", "int_parsing"))
	}
	size, ok := intParam(params, "size", defaultSize)
	if !ok {
		details = append(details, invalid("size", "Input should be a valid integer", "int_parsing"))
	}
	if len(details) > 0 {
		s.log.Info().Str("q", params.Get("q")).Int("errors", len(details)).Msg("rejected query")
		s.writeJSON(w, r, http.StatusUnprocessableEntity, models.HTTPValidationError{Detail: details})
		return
	}

	var hits []models.EntryDto
	distribution := map[string]int{}
	for _, e := range s.store.Entries() {
		if !resources[e.Resource] || e.Discarded || !dsl.Match(q, e.Entry) {
			continue
		}
		hits = append(hits, e)
		distribution[e.Resource]++
	}
	sortHits(hits, params.Get("sort"))

	resp := models.QueryResponse{
		Total: len(hits),
		Hits:  page(hits, from, size),
	}
	if params.Get("lexicon_stats") == "true" {
		resp.Distribution = distribution
	}

	s.log.Info().Str("path", r.URL.Path).Str("q", dsl.Render(q)).Int("total", resp.Total).Msg("query")
	s.writeJSON(w, r, http.StatusOK, resp)
}

func invalid(param, msg, typ string) models.ValidationError {
	return models.ValidationError{Loc: []any{"query", param}, Msg: msg, Type: typ}
}

func intParam(params url.Values, key string, def int) (int, bool) {
	raw := params.Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func page(hits []models.EntryDto, from, size int) []models.EntryDto {
	if from >= len(hits) {
		return []models.EntryDto{}
	}
	end := min(from+size, len(hits))
	return hits[from:end]
}

// sortHits orders hits by a comma-separated list of field or field|desc.
func sortHits(hits []models.EntryDto, order string) {
	if order == "" {
		return
	}
	keys := strings.Split(order, ",")
	sort.SliceStable(hits, func(i, j int) bool {
		for _, key := range keys {
			field, dir, _ := strings.Cut(key, "|")
			a := fmt.Sprint(hits[i].Entry[field])
			b := fmt.Sprint(hits[j].Entry[field])
			if a == b {
				continue
			}
			if dir == "desc" {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("JSON encode error")
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !s.DisableCompression {
		if enc, compressed, err := compress(r.Header.Get("Accept-Encoding"), data); err != nil {
			s.log.Error().Err(err).Msg("compression failed")
		} else if enc != "" {
			w.Header().Set("Content-Encoding", enc)
			data = compressed
		}
	}
	w.WriteHeader(status)
	w.Write(data)
}

// compress encodes data with the first of zstd and gzip that accept allows.
func compress(accept string, data []byte) (string, []byte, error) {
	offered := map[string]bool{}
	for _, part := range strings.Split(accept, ",") {
		name, _, _ := strings.Cut(part, ";")
		offered[strings.TrimSpace(strings.ToLower(name))] = true
	}

	switch {
	case offered["zstd"]:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return "", nil, err
		}
		defer enc.Close()
		return "zstd", enc.EncodeAll(data, nil), nil
	case offered["gzip"]:
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return "", nil, err
		}
		if err := gz.Close(); err != nil {
			return "", nil, err
		}
		return "gzip", buf.Bytes(), nil
	default:
		return "", nil, nil
	}
}

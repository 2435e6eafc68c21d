package karp

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// readBody reads resp.Body, undoing any Content-Encoding the server applied.
func readBody(resp *http.Response) ([]byte, error) {
	switch enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
		return io.ReadAll(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open gzip body")
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open zstd body")
		}
		defer dec.Close()
		return io.ReadAll(dec)
	default:
		return nil, errors.Errorf("unsupported content encoding %q", enc)
	}
}

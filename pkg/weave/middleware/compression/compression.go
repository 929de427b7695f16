// Package compression implements the response-compression middleware
// contract: gzip/deflate the handler's response body when the client
// accepts it, the content type is compressible, and the payload clears
// the configured minimum size.
package compression

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Algorithm is a selectable content-coding.
type Algorithm string

const (
	Gzip    Algorithm = "gzip"
	Deflate Algorithm = "deflate"
)

// Config configures the compression middleware.
type Config struct {
	Algorithms   []Algorithm
	Level        int // passed through to the underlying gzip/flate writer
	MinSize      int
	ContentTypes []string // when non-empty, only these content types compress
	ExcludeTypes []string // checked before ContentTypes, always wins

	// CompressWithoutAcceptEncoding compresses even when the request sent
	// no Accept-Encoding header, using the first configured algorithm.
	CompressWithoutAcceptEncoding bool
}

// DefaultConfig compresses gzip and deflate responses at the default
// compression level, 1KB minimum, skipping already-compressed media types.
func DefaultConfig() Config {
	return Config{
		Algorithms: []Algorithm{Gzip, Deflate},
		Level:      gzip.DefaultCompression,
		MinSize:    1024,
		ExcludeTypes: []string{
			"image/", "video/", "audio/", "application/zip",
			"application/gzip", "application/octet-stream",
		},
	}
}

// GzipOnly restricts the middleware to gzip.
func GzipOnly() Config {
	cfg := DefaultConfig()
	cfg.Algorithms = []Algorithm{Gzip}
	return cfg
}

func shouldCompressContentType(cfg Config, contentType string) bool {
	if contentType == "" {
		return false
	}
	ct := strings.ToLower(contentType)

	for _, excluded := range cfg.ExcludeTypes {
		if strings.HasPrefix(ct, excluded) || strings.Contains(ct, excluded) {
			return false
		}
	}

	if len(cfg.ContentTypes) > 0 {
		for _, allowed := range cfg.ContentTypes {
			if strings.HasPrefix(ct, allowed) || strings.Contains(ct, allowed) {
				return true
			}
		}
		return false
	}

	return strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "json") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "javascript") ||
		strings.Contains(ct, "css") ||
		strings.Contains(ct, "html") ||
		strings.Contains(ct, "svg")
}

// selectAlgorithm picks the first configured algorithm the client accepts,
// in the order the client listed them with a non-zero quality.
func selectAlgorithm(cfg Config, acceptEncoding string) (Algorithm, bool) {
	if acceptEncoding == "" {
		if cfg.CompressWithoutAcceptEncoding && len(cfg.Algorithms) > 0 {
			return cfg.Algorithms[0], true
		}
		return "", false
	}

	for _, part := range strings.Split(acceptEncoding, ",") {
		name, quality := parseEncodingPreference(part)
		if quality <= 0 {
			continue
		}
		for _, algo := range cfg.Algorithms {
			if string(algo) == name {
				return algo, true
			}
		}
	}
	return "", false
}

func parseEncodingPreference(part string) (name string, quality float64) {
	part = strings.TrimSpace(part)
	name, qStr, hasQ := strings.Cut(part, ";")
	name = strings.ToLower(strings.TrimSpace(name))
	quality = 1.0
	if hasQ {
		qStr = strings.TrimSpace(qStr)
		if v, ok := strings.CutPrefix(qStr, "q="); ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				quality = parsed
			}
		}
	}
	return name, quality
}

func compress(data []byte, algo Algorithm, level int) ([]byte, bool) {
	var buf bytes.Buffer
	switch algo {
	case Gzip:
		w, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, false
		}
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	case Deflate:
		w, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, false
		}
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	default:
		return nil, false
	}
	return buf.Bytes(), true
}

// New builds the middleware function.
func New(cfg Config) func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}

	return func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		acceptEncoding, _ := ctx.HeaderValue("Accept-Encoding")
		resp := next(ctx)

		if resp.Headers().Get("Content-Encoding") != "" {
			return resp
		}

		if !shouldCompressContentType(cfg, resp.Headers().Get("Content-Type")) {
			return resp
		}

		body := resp.Body()
		if len(body) < cfg.MinSize {
			return resp
		}

		algo, ok := selectAlgorithm(cfg, acceptEncoding)
		if !ok {
			return resp
		}

		compressed, ok := compress(body, algo, cfg.Level)
		if !ok || len(compressed) >= len(body) {
			return resp
		}

		return resp.Raw(compressed, resp.Headers().Get("Content-Type")).
			Header("Content-Encoding", string(algo)).
			Header("Content-Length", strconv.Itoa(len(compressed))).
			AppendHeader("Vary", "Accept-Encoding")
	}
}

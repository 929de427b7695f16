package compression

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/klauspost/compress/gzip"
)

func newCtx(t *testing.T, acceptEncoding string) *httpctx.Context {
	t.Helper()
	u, err := url.Parse("/x")
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	h := http.Header{}
	if acceptEncoding != "" {
		h.Set("Accept-Encoding", acceptEncoding)
	}
	return httpctx.New("GET", u, h, nil, nil, container.New(), "127.0.0.1:1234")
}

func TestCompressesLargeJSONWhenAccepted(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().JSON(map[string]string{"data": strings.Repeat("x", 2048)})
	}

	resp := mw(newCtx(t, "gzip, deflate"), next)

	if resp.Headers().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", resp.Headers().Get("Content-Encoding"))
	}

	r, err := gzip.NewReader(bytes.NewReader(resp.Body()))
	if err != nil {
		t.Fatalf("expected valid gzip body: %v", err)
	}
	defer r.Close()
}

func TestSkipsSmallBody(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().JSON(map[string]string{"ok": "yes"})
	}

	resp := mw(newCtx(t, "gzip"), next)
	if resp.Headers().Get("Content-Encoding") != "" {
		t.Fatalf("expected no compression for small body")
	}
}

func TestSkipsWhenNotAccepted(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().JSON(map[string]string{"data": strings.Repeat("x", 2048)})
	}

	resp := mw(newCtx(t, "br"), next)
	if resp.Headers().Get("Content-Encoding") != "" {
		t.Fatalf("expected no compression when client only accepts br")
	}
}

func TestSkipsAlreadyEncodedResponse(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().
			Header("Content-Encoding", "identity").
			JSON(map[string]string{"data": strings.Repeat("x", 2048)})
	}

	resp := mw(newCtx(t, "gzip"), next)
	if resp.Headers().Get("Content-Encoding") != "identity" {
		t.Fatalf("expected existing Content-Encoding to be preserved, got %q", resp.Headers().Get("Content-Encoding"))
	}
}

func TestSkipsExcludedContentType(t *testing.T) {
	mw := New(DefaultConfig())
	next := func(ctx *httpctx.Context) response.Response {
		return response.New().Raw(bytes.Repeat([]byte{0xFF}, 2048), "image/png")
	}

	resp := mw(newCtx(t, "gzip"), next)
	if resp.Headers().Get("Content-Encoding") != "" {
		t.Fatalf("expected image content type to be excluded from compression")
	}
}
